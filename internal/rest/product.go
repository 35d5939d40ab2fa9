package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint64) (domain.Product, error)
	GetProductsByMerchant(ctx context.Context, merchantID uint64) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product, merchantID uint64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64, merchantID uint64) error
}

type ProductHandler struct {
	productService ProductService
	merchants      MerchantDirectory
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, merchants MerchantDirectory) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		merchants:      merchants,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	CategoryID     *uint64 `json:"category_id"`
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	OriginalPrice  float64 `json:"original_price" validate:"required,gt=0"`
	ClearancePrice float64 `json:"clearance_price" validate:"required,gt=0"`
	ImageURL       string  `json:"image_url"`
	WhatsappLink   string  `json:"whatsapp_link"`
}

type UpdateProductRequest struct {
	CategoryID     *uint64 `json:"category_id"`
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	OriginalPrice  float64 `json:"original_price" validate:"required,gt=0"`
	ClearancePrice float64 `json:"clearance_price" validate:"required,gt=0"`
	ImageURL       string  `json:"image_url"`
	WhatsappLink   string  `json:"whatsapp_link"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productIdStr := c.Param("id")

	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productId)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": product,
	})
}

// GetMyProducts lists the products owned by the logged in merchant.
func (h *ProductHandler) GetMyProducts(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	products, err := h.productService.GetProductsByMerchant(ctx, profile.ID)
	if err != nil {
		logger.Error("Failed to find merchant products", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get merchant products",
		"products": products,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	product := &domain.Product{
		MerchantID:     profile.ID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		OriginalPrice:  req.OriginalPrice,
		ClearancePrice: req.ClearancePrice,
		ImageURL:       req.ImageURL,
		WhatsappLink:   req.WhatsappLink,
	}

	newProduct, err := h.productService.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("Failed to create product", err)
		// Check if it's a validation error
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "price") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": newProduct,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productIdStr := c.Param("id")

	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	product := &domain.Product{
		ID:             productId,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		OriginalPrice:  req.OriginalPrice,
		ClearancePrice: req.ClearancePrice,
		ImageURL:       req.ImageURL,
		WhatsappLink:   req.WhatsappLink,
	}

	updatedProduct, err := h.productService.UpdateProduct(ctx, product, profile.ID)
	if err != nil {
		logger.Error("Failed to update product", err)
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "price") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": updatedProduct,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productIdStr := c.Param("id")

	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	if err := h.productService.DeleteProduct(ctx, productId, profile.ID); err != nil {
		logger.Error("Failed to delete product", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}
