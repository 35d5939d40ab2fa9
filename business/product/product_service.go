package product

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByMerchant(ctx context.Context, merchantID uint64) ([]domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

// CategoryDirectory contract interface
type CategoryDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryDirectory
}

func NewProductService(productRepo ProductRepository, categoryRepo CategoryDirectory) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return domain.Product{}, fmt.Errorf("invalid product id: %w", domain.ErrNotFound)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by id")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *productService) GetProductsByMerchant(ctx context.Context, merchantID uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get products by merchant")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindByMerchant(ctx, merchantID)
	if err != nil {
		logger.Error("failed to find products by merchant", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) validate(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return errors.New("product name is required")
	}

	if product.OriginalPrice <= 0 {
		logger.Error("Invalid product data: original price must be greater than 0")
		return errors.New("original price must be greater than 0")
	}

	if product.ClearancePrice <= 0 || product.ClearancePrice >= product.OriginalPrice {
		logger.Error("Invalid product data: clearance price must be below the original price")
		return errors.New("clearance price must be greater than 0 and below the original price")
	}

	if product.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *product.CategoryID)
		if err != nil {
			logger.Error("product category not found", err)
			return err
		}
		// Products never live in the reserved capability category.
		if category.Name == domain.SlotManagerCategory {
			return fmt.Errorf("category %q is reserved: %w", category.Name, domain.ErrConflict)
		}
	}

	return nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, err
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product, merchantID uint64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("product not found", err)
		return nil, err
	}

	if existing.MerchantID != merchantID {
		logger.Warn("merchant tried to update someone else's product",
			"merchant_id", merchantID, "product_id", product.ID)
		return nil, fmt.Errorf("product %d does not belong to merchant %d: %w",
			product.ID, merchantID, domain.ErrUnauthorized)
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	product.MerchantID = existing.MerchantID
	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, err
	}

	logger.Info("product updated success", "product_id", product.ID)

	return &updated, nil
}

// DeleteProduct is the one hard delete in the system; the FK cascade removes
// the product's admission records and their ledger entries with it.
func (s *productService) DeleteProduct(ctx context.Context, id uint64, merchantID uint64) error {
	if id == 0 {
		logger.Error("Invalid product id when deleting product")
		return fmt.Errorf("invalid product id: %w", domain.ErrNotFound)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return err
	}

	if existing.MerchantID != merchantID {
		return fmt.Errorf("product %d does not belong to merchant %d: %w",
			id, merchantID, domain.ErrUnauthorized)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	logger.Info("product deleted success", "product_id", id)

	return nil
}
