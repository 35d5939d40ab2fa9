package rest

import (
	"context"
	"net/http"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	MerchantHandler struct {
		validate        *validator.Validate
		merchantService MerchantService
	}

	MerchantService interface {
		CreateProfile(ctx context.Context, profile *domain.MerchantProfile) (*domain.MerchantProfile, error)
		GetProfileByUserID(ctx context.Context, userID uint) (domain.MerchantProfile, error)
	}

	MerchantProfileInput struct {
		BusinessName   string `json:"business_name" validate:"required"`
		Location       string `json:"location"`
		WhatsappNumber string `json:"whatsapp_number" validate:"required"`
	}
)

func NewMerchantHandler(merchantService MerchantService) *MerchantHandler {
	return &MerchantHandler{
		validate:        validator.New(),
		merchantService: merchantService,
	}
}

func (h *MerchantHandler) CreateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var request MerchantProfileInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate merchant profile", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.merchantService.CreateProfile(ctx, &domain.MerchantProfile{
		UserID:         userID,
		BusinessName:   request.BusinessName,
		Location:       request.Location,
		WhatsappNumber: request.WhatsappNumber,
	})
	if err != nil {
		logger.Error("Failed to create merchant profile", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(profile))
}

func (h *MerchantHandler) GetMyProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.merchantService.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to find merchant profile", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
