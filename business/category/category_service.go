package category

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint64) error
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get category by id")
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid category id")
		return domain.Category{}, fmt.Errorf("invalid category id: %w", domain.ErrNotFound)
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find category", err)
		return domain.Category{}, err
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if category.Name == "" {
		logger.Error("Invalid category data: name is required")
		return nil, errors.New("category name is required")
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("failed to create new category", err)
		return nil, err
	}

	logger.Info("category created successfully", "name", category.Name)

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when update category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if category.ID == 0 {
		logger.Error("Invalid category data: ID is required")
		return nil, errors.New("category ID is required")
	}

	if category.Name == "" {
		logger.Error("Invalid category data: name is required")
		return nil, errors.New("category name is required")
	}

	// The reserved capability category must keep its name.
	existing, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		logger.Error("category not found", err)
		return nil, err
	}
	if existing.Name == domain.SlotManagerCategory && category.Name != domain.SlotManagerCategory {
		return nil, fmt.Errorf("the %q category cannot be renamed: %w", domain.SlotManagerCategory, domain.ErrConflict)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		logger.Error("failed to update category", err)
		return nil, err
	}

	updated, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		logger.Error("failed to fetch updated category", err)
		return nil, err
	}

	return &updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when delete category")
		return fmt.Errorf("context error: %w", err)
	}

	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("category not found", err)
		return err
	}

	if existing.Name == domain.SlotManagerCategory {
		return fmt.Errorf("the %q category cannot be deleted: %w", domain.SlotManagerCategory, domain.ErrConflict)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete category", err)
		return err
	}

	logger.Info("category deleted", "category_id", id)

	return nil
}
