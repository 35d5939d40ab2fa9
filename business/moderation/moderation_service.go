package moderation

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// Decision is the closed set of moderator actions the gateway dispatches.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
	DecisionRemove  Decision = "REMOVE"
)

// ParseDecision validates a wire-level decision string.
func ParseDecision(raw string) (Decision, error) {
	switch Decision(raw) {
	case DecisionApprove, DecisionReject, DecisionRemove:
		return Decision(raw), nil
	}
	return "", fmt.Errorf("unknown decision %q", raw)
}

// AdmissionOperations are the three sanctioned settling operations.
type AdmissionOperations interface {
	GetRecord(ctx context.Context, id uint64) (domain.AdmissionRecord, error)
	Approve(ctx context.Context, record domain.AdmissionRecord, moderatorID uint) (domain.AdmissionRecord, error)
	Reject(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error)
	Remove(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error)
}

// ModeratorDirectory contract interface
type ModeratorDirectory interface {
	FindByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error)
}

// ProductDirectory contract interface
type ProductDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

// SlotDirectory contract interface
type SlotDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Slot, error)
}

// MerchantNotifier tells the merchant why their product was rejected or
// removed. Best effort.
type MerchantNotifier interface {
	NotifyDecision(ctx context.Context, record domain.AdmissionRecord, decision Decision, comment string)
}

type moderationService struct {
	admissionOps  AdmissionOperations
	moderatorRepo ModeratorDirectory
	productRepo   ProductDirectory
	slotRepo      SlotDirectory
	notifier      MerchantNotifier
}

func NewModerationService(
	admissionOps AdmissionOperations,
	moderatorRepo ModeratorDirectory,
	productRepo ProductDirectory,
	slotRepo SlotDirectory,
	notifier MerchantNotifier,
) *moderationService {
	return &moderationService{
		admissionOps:  admissionOps,
		moderatorRepo: moderatorRepo,
		productRepo:   productRepo,
		slotRepo:      slotRepo,
		notifier:      notifier,
	}
}

// Decide is the only entry point for a moderator decision. It resolves the
// moderator's category set, rejects out-of-category decisions, re-checks the
// slot is still WAITING (a reconciliation pass can end it between page render
// and submit), then dispatches to the matching admission operation. Exactly
// one ledger entry and one admission mutation result from a successful call.
func (s *moderationService) Decide(ctx context.Context, moderatorUserID uint, admissionID uint64, decision Decision, comment string) (domain.AdmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdmissionRecord{}, fmt.Errorf("context error: %w", err)
	}

	profile, err := s.moderatorRepo.FindByUserID(ctx, moderatorUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AdmissionRecord{}, fmt.Errorf("user %d is not a moderator: %w",
				moderatorUserID, domain.ErrUnauthorized)
		}
		return domain.AdmissionRecord{}, err
	}

	record, err := s.admissionOps.GetRecord(ctx, admissionID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	product, err := s.productRepo.FindByID(ctx, record.ProductID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if product.CategoryID == nil || !profile.Handles(*product.CategoryID) {
		logger.Warn("Moderator decision outside assigned categories",
			"moderator_user_id", moderatorUserID, "admission_id", admissionID)
		return domain.AdmissionRecord{}, fmt.Errorf("product category outside moderator's assignment: %w",
			domain.ErrUnauthorized)
	}

	slot, err := s.slotRepo.FindByID(ctx, record.SlotID)
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if !slot.IsWaiting() {
		return domain.AdmissionRecord{}, fmt.Errorf("slot %d is %s: %w",
			slot.ID, slot.Status, domain.ErrStaleState)
	}

	var decided domain.AdmissionRecord
	switch decision {
	case DecisionApprove:
		decided, err = s.admissionOps.Approve(ctx, record, moderatorUserID)
	case DecisionReject:
		decided, err = s.admissionOps.Reject(ctx, record, moderatorUserID, comment)
	case DecisionRemove:
		decided, err = s.admissionOps.Remove(ctx, record, moderatorUserID, comment)
	default:
		return domain.AdmissionRecord{}, fmt.Errorf("unknown decision %q", decision)
	}
	if err != nil {
		return domain.AdmissionRecord{}, err
	}

	if s.notifier != nil && (decision == DecisionReject || decision == DecisionRemove) {
		s.notifier.NotifyDecision(ctx, decided, decision, decided.Comment)
	}

	logger.Info("Moderation decision applied",
		"moderator_user_id", moderatorUserID, "admission_id", admissionID, "decision", string(decision))

	return decided, nil
}
