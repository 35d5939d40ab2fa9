//go:build !integration

package admission

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"flashMarket/domain"
)

type fakeAdmissionRepo struct {
	records map[uint64]*domain.AdmissionRecord
	nextID  uint64
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{records: make(map[uint64]*domain.AdmissionRecord), nextID: 1}
}

func (r *fakeAdmissionRepo) Create(ctx context.Context, record *domain.AdmissionRecord) error {
	for _, rec := range r.records {
		if rec.ProductID == record.ProductID && rec.SlotID == record.SlotID {
			return fmt.Errorf("product %d already admitted to slot %d: %w",
				record.ProductID, record.SlotID, domain.ErrConflict)
		}
	}
	record.ID = r.nextID
	r.nextID++
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeAdmissionRepo) FindByID(ctx context.Context, id uint64) (domain.AdmissionRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return domain.AdmissionRecord{}, fmt.Errorf("admission %d: %w", id, domain.ErrNotFound)
	}
	return *rec, nil
}

func (r *fakeAdmissionRepo) FindBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error) {
	var out []domain.AdmissionRecord
	for _, rec := range r.records {
		if rec.SlotID == slotID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAdmissionRepo) UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.AdmissionStatus, comment string) (bool, error) {
	rec, ok := r.records[id]
	if !ok {
		return false, fmt.Errorf("admission %d: %w", id, domain.ErrNotFound)
	}
	if rec.Status != from {
		return false, nil
	}
	rec.Status = to
	rec.Comment = comment
	return true, nil
}

type fakeSlotDir struct {
	slots map[uint64]domain.Slot
}

func (d *fakeSlotDir) FindByID(ctx context.Context, id uint64) (domain.Slot, error) {
	s, ok := d.slots[id]
	if !ok {
		return domain.Slot{}, fmt.Errorf("slot %d: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

type fakeProductDir struct {
	products map[uint64]domain.Product
}

func (d *fakeProductDir) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	p, ok := d.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

type ledgerEntry struct {
	admissionID *uint64
	moderatorID *uint
	action      domain.LedgerAction
	comment     string
}

type fakeLedger struct {
	entries []ledgerEntry
}

func (l *fakeLedger) Record(ctx context.Context, admissionID *uint64, moderatorID *uint, action domain.LedgerAction, comment string) error {
	l.entries = append(l.entries, ledgerEntry{admissionID, moderatorID, action, comment})
	return nil
}

func (l *fakeLedger) countAction(action domain.LedgerAction) int {
	n := 0
	for _, e := range l.entries {
		if e.action == action {
			n++
		}
	}
	return n
}

type fakeReevaluator struct {
	calls []uint64
}

func (f *fakeReevaluator) Reevaluate(ctx context.Context, slotID uint64) (bool, error) {
	f.calls = append(f.calls, slotID)
	return false, nil
}

type fixture struct {
	svc    *admissionService
	repo   *fakeAdmissionRepo
	slots  *fakeSlotDir
	led    *fakeLedger
	reeval *fakeReevaluator
}

func newFixture() *fixture {
	repo := newFakeAdmissionRepo()
	slots := &fakeSlotDir{slots: map[uint64]domain.Slot{
		10: {ID: 10, Status: domain.SlotWaiting},
		11: {ID: 11, Status: domain.SlotLive},
	}}
	products := &fakeProductDir{products: map[uint64]domain.Product{
		100: {ID: 100, MerchantID: 7},
		101: {ID: 101, MerchantID: 8},
	}}
	led := &fakeLedger{}
	reeval := &fakeReevaluator{}
	return &fixture{
		svc:    NewAdmissionService(repo, slots, products, led, reeval),
		repo:   repo,
		slots:  slots,
		led:    led,
		reeval: reeval,
	}
}

func TestSubmitCreatesPending(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.Status != domain.AdmissionPending {
		t.Errorf("status = %s, want PENDING", record.Status)
	}
	if got := f.led.countAction(domain.ActionPending); got != 1 {
		t.Errorf("PENDING ledger entries = %d, want 1", got)
	}
}

func TestSubmitDuplicatePair(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Submit(context.Background(), 100, 10, 7); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), 100, 10, 7); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate pair, got %v", err)
	}
	if got := f.led.countAction(domain.ActionPending); got != 1 {
		t.Errorf("PENDING ledger entries = %d, want 1", got)
	}
}

func TestSubmitRequiresWaitingSlot(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Submit(context.Background(), 100, 11, 7); !errors.Is(err, domain.ErrGuardViolation) {
		t.Fatalf("expected ErrGuardViolation for live slot, got %v", err)
	}
}

func TestSubmitRequiresOwnership(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Submit(context.Background(), 101, 10, 7); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign product, got %v", err)
	}
}

func TestApproveSettlesRecord(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	decided, err := f.svc.Approve(context.Background(), record, 3)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if decided.Status != domain.AdmissionApproved {
		t.Errorf("status = %s, want APPROVED", decided.Status)
	}
	if decided.Comment != ApprovedComment {
		t.Errorf("comment = %q, want %q", decided.Comment, ApprovedComment)
	}
	if got := f.led.countAction(domain.ActionApprove); got != 1 {
		t.Errorf("APPROVE ledger entries = %d, want 1", got)
	}
	if len(f.reeval.calls) == 0 || f.reeval.calls[len(f.reeval.calls)-1] != 10 {
		t.Error("slot was not re-evaluated after the decision")
	}
}

func TestDoubleApproveIsIdempotent(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// both callers start from the same PENDING snapshot
	if _, err := f.svc.Approve(context.Background(), record, 3); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	decided, err := f.svc.Approve(context.Background(), record, 4)
	if err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if decided.Status != domain.AdmissionApproved {
		t.Errorf("status = %s, want APPROVED", decided.Status)
	}
	if got := f.led.countAction(domain.ActionApprove); got != 1 {
		t.Errorf("APPROVE ledger entries = %d, want 1", got)
	}
}

func TestConflictingDecisionsSurfaceStaleState(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.Approve(context.Background(), record, 3); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Reject(context.Background(), record, 4, "too pricey"); !errors.Is(err, domain.ErrStaleState) {
		t.Fatalf("expected ErrStaleState for conflicting decision, got %v", err)
	}
}

func TestRejectFallsBackToDefaultComment(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	decided, err := f.svc.Reject(context.Background(), record, 3, "   ")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if decided.Comment != DefaultRejectComment {
		t.Errorf("comment = %q, want %q", decided.Comment, DefaultRejectComment)
	}
}

func TestSettleRequiresWaitingSlot(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	f.slots.slots[10] = domain.Slot{ID: 10, Status: domain.SlotEnded}

	if _, err := f.svc.Approve(context.Background(), record, 3); !errors.Is(err, domain.ErrGuardViolation) {
		t.Fatalf("expected ErrGuardViolation for ended slot, got %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	withdrawn, err := f.svc.Withdraw(context.Background(), record.ID, 7)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if withdrawn.Status != domain.AdmissionRemoved {
		t.Errorf("status = %s, want REMOVED", withdrawn.Status)
	}
	if withdrawn.Comment != WithdrawnComment {
		t.Errorf("comment = %q, want %q", withdrawn.Comment, WithdrawnComment)
	}

	// system attributed, no moderator
	var removeEntry *ledgerEntry
	for i := range f.led.entries {
		if f.led.entries[i].action == domain.ActionRemove {
			removeEntry = &f.led.entries[i]
		}
	}
	if removeEntry == nil {
		t.Fatal("no REMOVE ledger entry")
	}
	if removeEntry.moderatorID != nil {
		t.Error("withdrawal ledger entry carries a moderator id")
	}

	// withdrawing again is a no-op
	again, err := f.svc.Withdraw(context.Background(), record.ID, 7)
	if err != nil {
		t.Fatalf("second Withdraw: %v", err)
	}
	if again.Status != domain.AdmissionRemoved {
		t.Errorf("status = %s, want REMOVED", again.Status)
	}
	if got := f.led.countAction(domain.ActionRemove); got != 1 {
		t.Errorf("REMOVE ledger entries = %d, want 1", got)
	}
}

func TestWithdrawApprovedRecordReevaluatesSlot(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Approve(context.Background(), record, 3); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	before := len(f.reeval.calls)
	if _, err := f.svc.Withdraw(context.Background(), record.ID, 7); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if len(f.reeval.calls) != before+1 {
		t.Error("withdrawal did not trigger a slot re-evaluation")
	}
}

func TestWithdrawRequiresOwnership(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.Withdraw(context.Background(), record.ID, 8); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestWithdrawRequiresWaitingSlot(t *testing.T) {
	f := newFixture()

	record, err := f.svc.Submit(context.Background(), 100, 10, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	f.slots.slots[10] = domain.Slot{ID: 10, Status: domain.SlotLive}

	if _, err := f.svc.Withdraw(context.Background(), record.ID, 7); !errors.Is(err, domain.ErrGuardViolation) {
		t.Fatalf("expected ErrGuardViolation, got %v", err)
	}
}
