package postgres

import (
	"context"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	DB *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{
		DB: db,
	}
}

func (r *LedgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// ExistsMatching reports whether the admission record already has an entry
// with the same action and comment. Used for duplicate suppression on
// settling transitions.
func (r *LedgerRepository) ExistsMatching(ctx context.Context, admissionID uint64, action domain.LedgerAction, comment string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Where("admission_id = ? AND action = ? AND comment = ?", admissionID, action, comment).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for matching ledger entry: %w", err)
	}

	return count > 0, nil
}

func (r *LedgerRepository) FindByAdmission(ctx context.Context, admissionID uint64) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.LedgerEntry
	err := r.DB.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries: %w", err)
	}

	return entries, nil
}

func (r *LedgerRepository) FindByProduct(ctx context.Context, productID uint64) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.LedgerEntry
	err := r.DB.WithContext(ctx).
		Joins("JOIN admission_records ON admission_records.id = ledger_entries.admission_id").
		Where("admission_records.product_id = ?", productID).
		Order("ledger_entries.created_at DESC, ledger_entries.id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries by product: %w", err)
	}

	return entries, nil
}

func (r *LedgerRepository) FindBySlot(ctx context.Context, slotID uint64) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.LedgerEntry
	err := r.DB.WithContext(ctx).
		Joins("JOIN admission_records ON admission_records.id = ledger_entries.admission_id").
		Where("admission_records.slot_id = ?", slotID).
		Order("ledger_entries.created_at DESC, ledger_entries.id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries by slot: %w", err)
	}

	return entries, nil
}
