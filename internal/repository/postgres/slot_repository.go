package postgres

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type SlotRepository struct {
	DB *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{
		DB: db,
	}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("slot name %q already exists: %w", slot.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create slot: %w", err)
	}

	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uint64) (domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Slot{}, fmt.Errorf("context error: %w", err)
	}

	var slot domain.Slot
	err := r.DB.WithContext(ctx).First(&slot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Slot{}, fmt.Errorf("slot %d: %w", id, domain.ErrNotFound)
		}
		return domain.Slot{}, fmt.Errorf("failed to find slot: %w", err)
	}

	return slot, nil
}

func (r *SlotRepository) FindAll(ctx context.Context) ([]domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var slots []domain.Slot
	if err := r.DB.WithContext(ctx).Order("start_time").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}

	return slots, nil
}

func (r *SlotRepository) FindByStatus(ctx context.Context, status domain.SlotStatus) ([]domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var slots []domain.Slot
	if err := r.DB.WithContext(ctx).Where("status = ?", status).Order("start_time").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to find slots by status: %w", err)
	}

	return slots, nil
}

// UpdateStatusCAS moves a slot from one status to another only if it is still
// in the expected status. Returns false when another writer got there first;
// re-evaluation treats that as already done.
func (r *SlotRepository) UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.SlotStatus) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update slot status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
