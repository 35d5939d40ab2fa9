package postgres

import (
	"context"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type VisitorRepository struct {
	DB *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{
		DB: db,
	}
}

func (r *VisitorRepository) Create(ctx context.Context, visitor *domain.Visitor) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(visitor).Error; err != nil {
		return fmt.Errorf("failed to record visitor: %w", err)
	}

	return nil
}
