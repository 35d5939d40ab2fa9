package postgres

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type AdmissionRepository struct {
	DB *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{
		DB: db,
	}
}

func (r *AdmissionRepository) Create(ctx context.Context, record *domain.AdmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product %d already submitted to slot %d: %w",
				record.ProductID, record.SlotID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create admission record: %w", err)
	}

	return nil
}

func (r *AdmissionRepository) FindByID(ctx context.Context, id uint64) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.AdmissionRecord
	err := r.DB.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdmissionRecord{}, fmt.Errorf("admission record %d: %w", id, domain.ErrNotFound)
		}
		return domain.AdmissionRecord{}, fmt.Errorf("failed to find admission record: %w", err)
	}

	return record, nil
}

func (r *AdmissionRepository) FindByPair(ctx context.Context, productID, slotID uint64) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.AdmissionRecord
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND slot_id = ?", productID, slotID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdmissionRecord{}, fmt.Errorf("admission for product %d in slot %d: %w",
				productID, slotID, domain.ErrNotFound)
		}
		return domain.AdmissionRecord{}, fmt.Errorf("failed to find admission record: %w", err)
	}

	return record, nil
}

func (r *AdmissionRepository) FindBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.AdmissionRecord
	if err := r.DB.WithContext(ctx).Where("slot_id = ?", slotID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find admission records: %w", err)
	}

	return records, nil
}

func (r *AdmissionRepository) FindPendingBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.AdmissionRecord
	err := r.DB.WithContext(ctx).
		Where("slot_id = ? AND status = ?", slotID, domain.AdmissionPending).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending admission records: %w", err)
	}

	return records, nil
}

func (r *AdmissionRepository) CountApproved(ctx context.Context, slotID uint64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.AdmissionRecord{}).
		Where("slot_id = ? AND status = ?", slotID, domain.AdmissionApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count approved admissions: %w", err)
	}

	return count, nil
}

// UpdateStatusCAS settles a record only if it still has the expected status,
// writing the new status and comment in one statement. A false return means a
// concurrent writer already settled it.
func (r *AdmissionRepository) UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.AdmissionStatus, comment string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.AdmissionRecord{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":  to,
			"comment": comment,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update admission status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
