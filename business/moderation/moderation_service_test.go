//go:build !integration

package moderation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"flashMarket/domain"
)

type fakeAdmissionOps struct {
	records     map[uint64]domain.AdmissionRecord
	approves    int
	rejects     int
	removes     int
	lastComment string
}

func (f *fakeAdmissionOps) GetRecord(ctx context.Context, id uint64) (domain.AdmissionRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return domain.AdmissionRecord{}, fmt.Errorf("admission %d: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeAdmissionOps) Approve(ctx context.Context, record domain.AdmissionRecord, moderatorID uint) (domain.AdmissionRecord, error) {
	f.approves++
	record.Status = domain.AdmissionApproved
	return record, nil
}

func (f *fakeAdmissionOps) Reject(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error) {
	f.rejects++
	f.lastComment = comment
	record.Status = domain.AdmissionRejected
	record.Comment = comment
	return record, nil
}

func (f *fakeAdmissionOps) Remove(ctx context.Context, record domain.AdmissionRecord, moderatorID uint, comment string) (domain.AdmissionRecord, error) {
	f.removes++
	f.lastComment = comment
	record.Status = domain.AdmissionRemoved
	record.Comment = comment
	return record, nil
}

type fakeModeratorDir struct {
	profiles map[uint]domain.ModeratorProfile
}

func (d *fakeModeratorDir) FindByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error) {
	p, ok := d.profiles[userID]
	if !ok {
		return domain.ModeratorProfile{}, fmt.Errorf("moderator profile for user %d: %w", userID, domain.ErrNotFound)
	}
	return p, nil
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

type fakeNotifier struct {
	notified []Decision
}

func (n *fakeNotifier) NotifyDecision(ctx context.Context, record domain.AdmissionRecord, decision Decision, comment string) {
	n.notified = append(n.notified, decision)
}

func catID(id uint64) *uint64 { return &id }

type decideFixture struct {
	svc      *moderationService
	ops      *fakeAdmissionOps
	slots    *fakeSlotDir
	notifier *fakeNotifier
}

func newDecideFixture() *decideFixture {
	ops := &fakeAdmissionOps{records: map[uint64]domain.AdmissionRecord{
		1: {ID: 1, ProductID: 100, SlotID: 10, Status: domain.AdmissionPending},
	}}
	mods := &fakeModeratorDir{profiles: map[uint]domain.ModeratorProfile{
		// moderator 3 handles category 5 only
		3: {ID: 3, UserID: 3, Categories: []domain.Category{{ID: 5, Name: "Electronics"}}},
		// moderator 4 has no categories assigned
		4: {ID: 4, UserID: 4},
	}}
	products := &fakeProductDir{products: map[uint64]domain.Product{
		100: {ID: 100, MerchantID: 7, CategoryID: catID(5)},
		101: {ID: 101, MerchantID: 7, CategoryID: catID(6)},
		102: {ID: 102, MerchantID: 7},
	}}
	slots := &fakeSlotDir{slots: map[uint64]domain.Slot{
		10: {ID: 10, Status: domain.SlotWaiting},
	}}
	notifier := &fakeNotifier{}
	return &decideFixture{
		svc:      NewModerationService(ops, mods, products, slots, notifier),
		ops:      ops,
		slots:    slots,
		notifier: notifier,
	}
}

func TestDecideDispatchesApprove(t *testing.T) {
	f := newDecideFixture()

	record, err := f.svc.Decide(context.Background(), 3, 1, DecisionApprove, "")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if record.Status != domain.AdmissionApproved {
		t.Errorf("status = %s, want APPROVED", record.Status)
	}
	if f.ops.approves != 1 {
		t.Errorf("approve calls = %d, want 1", f.ops.approves)
	}
	if len(f.notifier.notified) != 0 {
		t.Error("approval must not notify the merchant")
	}
}

func TestDecideRejectNotifiesMerchant(t *testing.T) {
	f := newDecideFixture()

	if _, err := f.svc.Decide(context.Background(), 3, 1, DecisionReject, "blurry photos"); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if f.ops.rejects != 1 {
		t.Errorf("reject calls = %d, want 1", f.ops.rejects)
	}
	if f.ops.lastComment != "blurry photos" {
		t.Errorf("comment = %q, want %q", f.ops.lastComment, "blurry photos")
	}
	if len(f.notifier.notified) != 1 || f.notifier.notified[0] != DecisionReject {
		t.Errorf("notifications = %v, want one REJECT", f.notifier.notified)
	}
}

func TestDecideRequiresModeratorProfile(t *testing.T) {
	f := newDecideFixture()

	_, err := f.svc.Decide(context.Background(), 99, 1, DecisionApprove, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if f.ops.approves != 0 {
		t.Error("unauthorized decision reached the admission operations")
	}
}

func TestDecideOutsideAssignedCategories(t *testing.T) {
	f := newDecideFixture()
	f.ops.records[2] = domain.AdmissionRecord{ID: 2, ProductID: 101, SlotID: 10, Status: domain.AdmissionPending}

	// moderator 3 handles category 5, product 101 is in category 6
	_, err := f.svc.Decide(context.Background(), 3, 2, DecisionApprove, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if f.ops.approves != 0 {
		t.Error("out-of-category decision reached the admission operations")
	}

	// a moderator with no categories can decide nothing
	_, err = f.svc.Decide(context.Background(), 4, 1, DecisionApprove, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty assignment, got %v", err)
	}
}

func TestDecideUncategorizedProduct(t *testing.T) {
	f := newDecideFixture()
	f.ops.records[3] = domain.AdmissionRecord{ID: 3, ProductID: 102, SlotID: 10, Status: domain.AdmissionPending}

	_, err := f.svc.Decide(context.Background(), 3, 3, DecisionApprove, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for uncategorized product, got %v", err)
	}
}

func TestDecideStaleSlot(t *testing.T) {
	f := newDecideFixture()
	f.slots.slots[10] = domain.Slot{ID: 10, Status: domain.SlotEnded}

	_, err := f.svc.Decide(context.Background(), 3, 1, DecisionApprove, "")
	if !errors.Is(err, domain.ErrStaleState) {
		t.Fatalf("expected ErrStaleState for ended slot, got %v", err)
	}
	if f.ops.approves != 0 {
		t.Error("stale decision reached the admission operations")
	}
}

func TestParseDecision(t *testing.T) {
	for _, raw := range []string{"APPROVE", "REJECT", "REMOVE"} {
		if _, err := ParseDecision(raw); err != nil {
			t.Errorf("ParseDecision(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "approve", "DELETE", "OK"} {
		if _, err := ParseDecision(raw); err == nil {
			t.Errorf("ParseDecision(%q) accepted an invalid decision", raw)
		}
	}
}
