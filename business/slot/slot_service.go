package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/clock"
	"flashMarket/pkg/logger"
	"flashMarket/pkg/metrics"
)

// ExpiredComment is written on every pending admission auto-rejected because
// its slot ended before going live.
const ExpiredComment = "timeslot expired before going live"

// SlotRepository contract interface
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) error
	FindByID(ctx context.Context, id uint64) (domain.Slot, error)
	FindAll(ctx context.Context) ([]domain.Slot, error)
	UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.SlotStatus) (bool, error)
}

// AdmissionRepository is the slice of the admission store the slot state
// machine needs: the approved count that gates going live, and the pending
// records to auto-reject on a missed threshold.
type AdmissionRepository interface {
	CountApproved(ctx context.Context, slotID uint64) (int64, error)
	FindPendingBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error)
	UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.AdmissionStatus, comment string) (bool, error)
}

// Ledger contract interface
type Ledger interface {
	Record(ctx context.Context, admissionID *uint64, moderatorID *uint, action domain.LedgerAction, comment string) error
}

// ModeratorDirectory resolves the slot-manager capability.
type ModeratorDirectory interface {
	FindByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error)
}

type slotService struct {
	slotRepo      SlotRepository
	admissionRepo AdmissionRepository
	ledger        Ledger
	moderatorRepo ModeratorDirectory
	clk           clock.Clock
	liveThreshold int64
}

func NewSlotService(
	slotRepo SlotRepository,
	admissionRepo AdmissionRepository,
	ledger Ledger,
	moderatorRepo ModeratorDirectory,
	clk clock.Clock,
	liveThreshold int64,
) *slotService {
	return &slotService{
		slotRepo:      slotRepo,
		admissionRepo: admissionRepo,
		ledger:        ledger,
		moderatorRepo: moderatorRepo,
		clk:           clk,
		liveThreshold: liveThreshold,
	}
}

// CreateSlot opens a new flash-sale window in WAITING. Only moderators
// assigned the reserved slot-manager category may create slots. Status and
// creator are set here regardless of what the input carries.
func (s *slotService) CreateSlot(ctx context.Context, input domain.Slot, creatorUserID uint) (domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Slot{}, fmt.Errorf("context error: %w", err)
	}

	profile, err := s.moderatorRepo.FindByUserID(ctx, creatorUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Slot{}, fmt.Errorf("user %d is not a moderator: %w", creatorUserID, domain.ErrUnauthorized)
		}
		return domain.Slot{}, err
	}

	if !profile.CanManageSlots() {
		logger.Warn("Moderator without slot-manager capability tried to create a slot", "user_id", creatorUserID)
		return domain.Slot{}, fmt.Errorf("slot creation requires the %q category: %w",
			domain.SlotManagerCategory, domain.ErrUnauthorized)
	}

	if input.Name == "" {
		return domain.Slot{}, errors.New("slot name is required")
	}

	if !input.EndTime.After(input.StartTime) {
		return domain.Slot{}, errors.New("slot end time must be after start time")
	}

	slot := domain.Slot{
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Intensity: input.Intensity,
		Premium:   input.Premium,
		Status:    domain.SlotWaiting,
		CreatedBy: &creatorUserID,
	}

	if err := s.slotRepo.Create(ctx, &slot); err != nil {
		logger.Error("Failed to create slot", err)
		return domain.Slot{}, err
	}

	if err := s.ledger.Record(ctx, nil, &creatorUserID, domain.ActionCreateSlot,
		fmt.Sprintf("slot %q created", slot.Name)); err != nil {
		logger.Error("Failed to record slot creation", err)
	}

	logger.Info("Slot created", "slot_id", slot.ID, "name", slot.Name)

	return slot, nil
}

func (s *slotService) GetSlot(ctx context.Context, id uint64) (domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Slot{}, fmt.Errorf("context error: %w", err)
	}

	return s.slotRepo.FindByID(ctx, id)
}

func (s *slotService) GetAllSlots(ctx context.Context) ([]domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.slotRepo.FindAll(ctx)
}

// targetStatus is the pure transition function: given the stored slot, the
// current time, and the approved-admission count, it returns the status the
// slot should be in. Status never moves backward.
func targetStatus(slot domain.Slot, now time.Time, approved, threshold int64) domain.SlotStatus {
	if slot.Status == domain.SlotEnded {
		return domain.SlotEnded
	}

	if !now.Before(slot.EndTime) {
		return domain.SlotEnded
	}

	if slot.Status == domain.SlotWaiting && !now.Before(slot.StartTime) {
		if approved >= threshold {
			return domain.SlotLive
		}
		return domain.SlotEnded
	}

	return slot.Status
}

// Reevaluate recomputes one slot's status from the clock and the approved
// count, writing back only on change. Safe to call at any time from any
// trigger; the status write is a compare-and-swap so concurrent callers
// cannot double-apply a transition.
func (s *slotService) Reevaluate(ctx context.Context, slotID uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return false, err
	}

	if slot.Status == domain.SlotEnded {
		return false, nil
	}

	approved, err := s.admissionRepo.CountApproved(ctx, slotID)
	if err != nil {
		return false, err
	}

	now := s.clk.Now()
	target := targetStatus(slot, now, approved, s.liveThreshold)
	if target == slot.Status {
		return false, nil
	}

	changed, err := s.slotRepo.UpdateStatusCAS(ctx, slot.ID, slot.Status, target)
	if err != nil {
		return false, err
	}
	if !changed {
		// Another writer moved the slot first; the winner ran the side
		// effects.
		return false, nil
	}

	metrics.SlotTransitions.WithLabelValues(string(target)).Inc()
	logger.Info("Slot transitioned", "slot_id", slot.ID, "from", string(slot.Status), "to", string(target))

	// A slot that goes straight from WAITING to ENDED is gone before its
	// shelf ever went live; pending submissions are resolved immediately
	// instead of being left in limbo.
	if slot.Status == domain.SlotWaiting && target == domain.SlotEnded {
		if err := s.rejectPending(ctx, slot.ID); err != nil {
			logger.Error("Failed to auto-reject pending admissions", "slot_id", slot.ID, "error", err)
			return true, err
		}
	}

	return true, nil
}

func (s *slotService) rejectPending(ctx context.Context, slotID uint64) error {
	pending, err := s.admissionRepo.FindPendingBySlot(ctx, slotID)
	if err != nil {
		return err
	}

	for _, record := range pending {
		ok, err := s.admissionRepo.UpdateStatusCAS(ctx, record.ID,
			domain.AdmissionPending, domain.AdmissionRejected, ExpiredComment)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		recordID := record.ID
		if err := s.ledger.Record(ctx, &recordID, nil, domain.ActionReject, ExpiredComment); err != nil {
			return err
		}
	}

	return nil
}

// Reconcile sweeps every slot through Reevaluate and returns how many
// changed. One slot's failure is logged and skipped, not fatal to the sweep.
// Overlapping runs are safe: each transition is a per-slot compare-and-swap.
func (s *slotService) Reconcile(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	timer := metrics.NewReconcileTimer()
	defer timer.ObserveDuration()

	slots, err := s.slotRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	changedCount := 0
	for _, slot := range slots {
		if slot.Status == domain.SlotEnded {
			continue
		}

		changed, err := s.Reevaluate(ctx, slot.ID)
		if err != nil {
			logger.Error("Reconciliation failed for slot", "slot_id", slot.ID, "error", err)
			continue
		}
		if changed {
			changedCount++
		}
	}

	if changedCount > 0 {
		metrics.ReconcileChangedSlots.Add(float64(changedCount))
	}

	return changedCount, nil
}
