package admission

import (
	"context"
	"fmt"
	"strings"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
	"flashMarket/pkg/metrics"
)

// Fixed and fallback comments written into settled admission records and
// their ledger entries.
const (
	ApprovedComment      = "approved for the flash sale"
	DefaultRejectComment = "does not meet marketplace standards"
	DefaultRemoveComment = "removed by a moderator"
	WithdrawnComment     = "withdrawn by the merchant"
	SubmittedComment     = "submitted for moderation"
)

// AdmissionRepository contract interface
type AdmissionRepository interface {
	Create(ctx context.Context, record *domain.AdmissionRecord) error
	FindByID(ctx context.Context, id uint64) (domain.AdmissionRecord, error)
	FindBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error)
	UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.AdmissionStatus, comment string) (bool, error)
}

// SlotDirectory contract interface
type SlotDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Slot, error)
}

// SlotReevaluator re-runs the slot state machine after an admission mutation.
type SlotReevaluator interface {
	Reevaluate(ctx context.Context, slotID uint64) (bool, error)
}

// ProductDirectory contract interface
type ProductDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

// Ledger contract interface
type Ledger interface {
	Record(ctx context.Context, admissionID *uint64, moderatorID *uint, action domain.LedgerAction, comment string) error
}

type admissionService struct {
	admissionRepo AdmissionRepository
	slotRepo      SlotDirectory
	productRepo   ProductDirectory
	ledger        Ledger
	reevaluator   SlotReevaluator
}

func NewAdmissionService(
	admissionRepo AdmissionRepository,
	slotRepo SlotDirectory,
	productRepo ProductDirectory,
	ledger Ledger,
	reevaluator SlotReevaluator,
) *admissionService {
	return &admissionService{
		admissionRepo: admissionRepo,
		slotRepo:      slotRepo,
		productRepo:   productRepo,
		ledger:        ledger,
		reevaluator:   reevaluator,
	}
}

// Submit creates a PENDING admission of the merchant's product into a slot.
// Fails with ErrGuardViolation when the slot has left WAITING and with
// ErrConflict when the product was already submitted to this slot.
func (s *admissionService) Submit(ctx context.Context, productID, slotID uint64, merchantID uint64) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if product.MerchantID != merchantID {
		logger.Warn("Merchant tried to submit someone else's product",
			"merchant_id", merchantID, "product_id", productID)
		return domain.AdmissionRecord{}, fmt.Errorf("product %d does not belong to merchant %d: %w",
			productID, merchantID, domain.ErrUnauthorized)
	}

	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if !slot.IsWaiting() {
		return domain.AdmissionRecord{}, fmt.Errorf("slot %d is %s: %w",
			slotID, slot.Status, domain.ErrGuardViolation)
	}

	record := domain.AdmissionRecord{
		ProductID: productID,
		SlotID:    slotID,
		Status:    domain.AdmissionPending,
	}

	if err := s.admissionRepo.Create(ctx, &record); err != nil {
		logger.Error("Failed to create admission record", err)
		return domain.AdmissionRecord{}, err
	}

	recordID := record.ID
	if err := s.ledger.Record(ctx, &recordID, nil, domain.ActionPending, SubmittedComment); err != nil {
		logger.Error("Failed to record admission submission", err)
	}

	logger.Info("Admission submitted", "admission_id", record.ID, "product_id", productID, "slot_id", slotID)

	return record, nil
}

func (s *admissionService) GetRecord(ctx context.Context, id uint64) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	return s.admissionRepo.FindByID(ctx, id)
}

func (s *admissionService) GetBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.admissionRepo.FindBySlot(ctx, slotID)
}

// Approve settles a pending record with the fixed approval comment.
func (s *admissionService) Approve(ctx context.Context, record domain.AdmissionRecord, moderatorID uint) (domain.AdmissionRecord, error) {
	return s.settle(ctx, record, domain.AdmissionApproved, domain.ActionApprove, ApprovedComment, &moderatorID)
}

// Reject settles a pending record with the moderator's comment, falling back
// to a generic one when blank.
func (s *admissionService) Reject(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error) {
	if strings.TrimSpace(comment) == "" {
		comment = DefaultRejectComment
	}
	return s.settle(ctx, record, domain.AdmissionRejected, domain.ActionReject, comment, &moderatorID)
}

// Remove settles a pending record with the moderator's comment, falling back
// to a generic one when blank.
func (s *admissionService) Remove(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error) {
	if strings.TrimSpace(comment) == "" {
		comment = DefaultRemoveComment
	}
	return s.settle(ctx, record, domain.AdmissionRemoved, domain.ActionRemove, comment, &moderatorID)
}

// settle is the single path from PENDING to a decided status: one
// compare-and-swap on the status field, one ledger entry, then a synchronous
// slot re-evaluation. When the CAS loses a race against an identical decision
// the call degrades to a no-op read; a different concurrent decision surfaces
// as ErrStaleState.
func (s *admissionService) settle(ctx context.Context, record domain.AdmissionRecord, to domain.AdmissionStatus, action domain.LedgerAction, comment string, moderatorID *uint) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	slot, err := s.slotRepo.FindByID(ctx, record.SlotID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if !slot.IsWaiting() {
		return domain.AdmissionRecord{}, fmt.Errorf("slot %d is %s: %w",
			slot.ID, slot.Status, domain.ErrGuardViolation)
	}

	ok, err := s.admissionRepo.UpdateStatusCAS(ctx, record.ID, domain.AdmissionPending, to, comment)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if !ok {
		current, err := s.admissionRepo.FindByID(ctx, record.ID)
		if err != nil {
			return domain.AdmissionRecord{}, err
		}
		if current.Status != to {
			return domain.AdmissionRecord{}, fmt.Errorf("admission %d already settled as %s: %w",
				record.ID, current.Status, domain.ErrStaleState)
		}
		// Same decision applied twice in a race; the ledger's dedup keeps
		// history single-entry.
		return current, nil
	}

	metrics.ModerationDecisions.WithLabelValues(string(action)).Inc()

	recordID := record.ID
	if err := s.ledger.Record(ctx, &recordID, moderatorID, action, comment); err != nil {
		logger.Error("Failed to record moderation decision", err)
	}

	if _, err := s.reevaluator.Reevaluate(ctx, record.SlotID); err != nil {
		// The periodic sweep will catch the slot up.
		logger.Error("Slot re-evaluation after decision failed", "slot_id", record.SlotID, "error", err)
	}

	record.Status = to
	record.Comment = comment

	return record, nil
}

// Withdraw is the merchant-initiated removal: same REMOVED status, but a
// system-attributed ledger entry and a fixed comment. History is preserved,
// the row is never deleted.
func (s *admissionService) Withdraw(ctx context.Context, recordID uint64, merchantID uint64) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	record, err := s.admissionRepo.FindByID(ctx, recordID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	product, err := s.productRepo.FindByID(ctx, record.ProductID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if product.MerchantID != merchantID {
		return domain.AdmissionRecord{}, fmt.Errorf("admission %d does not belong to merchant %d: %w",
			recordID, merchantID, domain.ErrUnauthorized)
	}

	slot, err := s.slotRepo.FindByID(ctx, record.SlotID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if !slot.IsWaiting() {
		return domain.AdmissionRecord{}, fmt.Errorf("slot %d is %s: %w",
			slot.ID, slot.Status, domain.ErrGuardViolation)
	}

	if record.Status == domain.AdmissionRemoved {
		return record, nil
	}

	ok, err := s.admissionRepo.UpdateStatusCAS(ctx, record.ID, record.Status, domain.AdmissionRemoved, WithdrawnComment)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}
	if !ok {
		return domain.AdmissionRecord{}, fmt.Errorf("admission %d changed while withdrawing: %w",
			record.ID, domain.ErrStaleState)
	}

	if err := s.ledger.Record(ctx, &recordID, nil, domain.ActionRemove, WithdrawnComment); err != nil {
		logger.Error("Failed to record withdrawal", err)
	}

	// An approved record leaving the slot changes the approved count.
	if _, err := s.reevaluator.Reevaluate(ctx, record.SlotID); err != nil {
		logger.Error("Slot re-evaluation after withdrawal failed", "slot_id", record.SlotID, "error", err)
	}

	record.Status = domain.AdmissionRemoved
	record.Comment = WithdrawnComment

	return record, nil
}
