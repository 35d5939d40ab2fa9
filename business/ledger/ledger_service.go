package ledger

import (
	"context"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/clock"
	"flashMarket/pkg/logger"

	"github.com/google/uuid"
)

// LedgerRepository contract interface
type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	ExistsMatching(ctx context.Context, admissionID uint64, action domain.LedgerAction, comment string) (bool, error)
	FindByAdmission(ctx context.Context, admissionID uint64) ([]domain.LedgerEntry, error)
	FindByProduct(ctx context.Context, productID uint64) ([]domain.LedgerEntry, error)
	FindBySlot(ctx context.Context, slotID uint64) ([]domain.LedgerEntry, error)
}

type ledgerService struct {
	ledgerRepo LedgerRepository
	clk        clock.Clock
}

func NewLedgerService(ledgerRepo LedgerRepository, clk clock.Clock) *ledgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		clk:        clk,
	}
}

// settling actions can be observed and re-logged by multiple independent
// triggers (a moderator call plus a reconciliation pass); PENDING and
// CREATE_SLOT occur exactly once per entity by construction.
func settling(action domain.LedgerAction) bool {
	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionRemove:
		return true
	}
	return false
}

// Record appends one audit entry. For settling actions it first checks for an
// existing entry on the same admission with the same action and comment, and
// silently skips the write when found. The ledger is the last line of defense
// against duplicate history, not the state machines.
func (s *ledgerService) Record(ctx context.Context, admissionID *uint64, moderatorID *uint, action domain.LedgerAction, comment string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if admissionID != nil && settling(action) {
		exists, err := s.ledgerRepo.ExistsMatching(ctx, *admissionID, action, comment)
		if err != nil {
			return fmt.Errorf("failed to check ledger for duplicates: %w", err)
		}
		if exists {
			logger.Warn("Suppressed duplicate ledger entry",
				"admission_id", *admissionID, "action", string(action))
			return nil
		}
	}

	entry := &domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AdmissionID: admissionID,
		ModeratorID: moderatorID,
		Action:      action,
		Comment:     comment,
		CreatedAt:   s.clk.Now(),
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// HistoryByProduct returns the product's audit trail, most recent first.
func (s *ledgerService) HistoryByProduct(ctx context.Context, productID uint64) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	entries, err := s.ledgerRepo.FindByProduct(ctx, productID)
	if err != nil {
		logger.Error("Failed to load product history", err)
		return nil, err
	}

	return entries, nil
}

// HistoryBySlot returns the audit trail of every admission in the slot, most
// recent first.
func (s *ledgerService) HistoryBySlot(ctx context.Context, slotID uint64) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	entries, err := s.ledgerRepo.FindBySlot(ctx, slotID)
	if err != nil {
		logger.Error("Failed to load slot history", err)
		return nil, err
	}

	return entries, nil
}
