//go:build !integration

package slot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/clock"
)

type fakeSlotRepo struct {
	slots  map[uint64]*domain.Slot
	nextID uint64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uint64]*domain.Slot), nextID: 1}
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *domain.Slot) error {
	for _, s := range r.slots {
		if s.Name == slot.Name {
			return fmt.Errorf("slot name %q taken: %w", slot.Name, domain.ErrConflict)
		}
	}
	slot.ID = r.nextID
	r.nextID++
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) FindByID(ctx context.Context, id uint64) (domain.Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return domain.Slot{}, fmt.Errorf("slot %d: %w", id, domain.ErrNotFound)
	}
	return *s, nil
}

func (r *fakeSlotRepo) FindAll(ctx context.Context) ([]domain.Slot, error) {
	out := make([]domain.Slot, 0, len(r.slots))
	for i := uint64(1); i < r.nextID; i++ {
		if s, ok := r.slots[i]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.SlotStatus) (bool, error) {
	s, ok := r.slots[id]
	if !ok {
		return false, fmt.Errorf("slot %d: %w", id, domain.ErrNotFound)
	}
	if s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

type fakeAdmissionStore struct {
	records  map[uint64]*domain.AdmissionRecord
	countErr map[uint64]error
}

func newFakeAdmissionStore() *fakeAdmissionStore {
	return &fakeAdmissionStore{records: make(map[uint64]*domain.AdmissionRecord)}
}

func (r *fakeAdmissionStore) add(id, slotID uint64, status domain.AdmissionStatus) {
	r.records[id] = &domain.AdmissionRecord{ID: id, SlotID: slotID, Status: status}
}

func (r *fakeAdmissionStore) CountApproved(ctx context.Context, slotID uint64) (int64, error) {
	if err, ok := r.countErr[slotID]; ok {
		return 0, err
	}
	var n int64
	for _, rec := range r.records {
		if rec.SlotID == slotID && rec.Status == domain.AdmissionApproved {
			n++
		}
	}
	return n, nil
}

func (r *fakeAdmissionStore) FindPendingBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error) {
	var out []domain.AdmissionRecord
	for _, rec := range r.records {
		if rec.SlotID == slotID && rec.Status == domain.AdmissionPending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAdmissionStore) UpdateStatusCAS(ctx context.Context, id uint64, from, to domain.AdmissionStatus, comment string) (bool, error) {
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

const testThreshold = 4

func slotInput(name string, start, end time.Time) domain.Slot {
	return domain.Slot{Name: name, StartTime: start, EndTime: end}
}

func newTestService(slots *fakeSlotRepo, admissions *fakeAdmissionStore, led *fakeLedger, clk clock.Clock) *slotService {
	mods := &fakeModeratorDir{profiles: map[uint]domain.ModeratorProfile{
		1: {ID: 1, UserID: 1, Categories: []domain.Category{{ID: 99, Name: domain.SlotManagerCategory}}},
		2: {ID: 2, UserID: 2, Categories: []domain.Category{{ID: 5, Name: "Electronics"}}},
	}}
	return NewSlotService(slots, admissions, led, mods, clk, testThreshold)
}

func seedSlot(repo *fakeSlotRepo, status domain.SlotStatus, start, end time.Time) uint64 {
	id := repo.nextID
	repo.nextID++
	repo.slots[id] = &domain.Slot{
		ID:        id,
		Name:      fmt.Sprintf("slot-%d", id),
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	return id
}

func TestCreateSlotRequiresSlotManager(t *testing.T) {
	slots := newFakeSlotRepo()
	led := &fakeLedger{}
	svc := newTestService(slots, newFakeAdmissionStore(), led, clock.NewFixed(time.Now()))

	start := time.Now().Add(time.Hour)
	end := start.Add(2 * time.Hour)

	// user 3 has no moderator profile at all
	if _, err := svc.CreateSlot(context.Background(), slotInput("evening rush", start, end), 3); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-moderator, got %v", err)
	}

	// user 2 is a moderator without the reserved category
	if _, err := svc.CreateSlot(context.Background(), slotInput("evening rush", start, end), 2); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without slot-manager category, got %v", err)
	}

	slot, err := svc.CreateSlot(context.Background(), slotInput("evening rush", start, end), 1)
	if err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if slot.Status != domain.SlotWaiting {
		t.Errorf("new slot status = %s, want WAITING", slot.Status)
	}
	if got := led.countAction(domain.ActionCreateSlot); got != 1 {
		t.Errorf("CREATE_SLOT ledger entries = %d, want 1", got)
	}
}

func TestCreateSlotValidation(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), newFakeAdmissionStore(), &fakeLedger{}, clock.NewFixed(time.Now()))

	start := time.Now().Add(time.Hour)

	if _, err := svc.CreateSlot(context.Background(), slotInput("", start, start.Add(time.Hour)), 1); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := svc.CreateSlot(context.Background(), slotInput("bad window", start, start), 1); err == nil {
		t.Error("expected error for end not after start")
	}
}

func TestCreateSlotDuplicateName(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), newFakeAdmissionStore(), &fakeLedger{}, clock.NewFixed(time.Now()))

	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)

	if _, err := svc.CreateSlot(context.Background(), slotInput("lunch deal", start, end), 1); err != nil {
		t.Fatalf("first CreateSlot: %v", err)
	}
	if _, err := svc.CreateSlot(context.Background(), slotInput("lunch deal", start, end), 1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestCreateSlotKeepsScheduleAttributes(t *testing.T) {
	slots := newFakeSlotRepo()
	svc := newTestService(slots, newFakeAdmissionStore(), &fakeLedger{}, clock.NewFixed(time.Now()))

	input := slotInput("midnight madness", time.Now().Add(time.Hour), time.Now().Add(3*time.Hour))
	input.Intensity = "high"
	input.Premium = true
	// status and creator are not caller-controlled
	input.Status = domain.SlotLive

	slot, err := svc.CreateSlot(context.Background(), input, 1)
	if err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	stored, _ := slots.FindByID(context.Background(), slot.ID)
	if stored.Intensity != "high" {
		t.Errorf("intensity = %q, want %q", stored.Intensity, "high")
	}
	if !stored.Premium {
		t.Error("premium flag was dropped")
	}
	if stored.Status != domain.SlotWaiting {
		t.Errorf("status = %s, want WAITING regardless of input", stored.Status)
	}
	if stored.CreatedBy == nil || *stored.CreatedBy != 1 {
		t.Errorf("created_by = %v, want the creating user", stored.CreatedBy)
	}
}

func TestSlotGoesLiveAtThreshold(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	svc := newTestService(slots, admissions, &fakeLedger{}, clk)

	id := seedSlot(slots, domain.SlotWaiting, base.Add(time.Hour), base.Add(3*time.Hour))
	for i := uint64(1); i <= testThreshold; i++ {
		admissions.add(i, id, domain.AdmissionApproved)
	}

	// before start nothing happens
	changed, err := svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	if changed {
		t.Error("slot changed before its start time")
	}

	clk.Advance(time.Hour)

	changed, err = svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	if !changed {
		t.Fatal("expected transition at start time")
	}
	got, _ := slots.FindByID(context.Background(), id)
	if got.Status != domain.SlotLive {
		t.Fatalf("slot status = %s, want LIVE", got.Status)
	}

	// re-running is a no-op
	changed, err = svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("second Reevaluate: %v", err)
	}
	if changed {
		t.Error("second Reevaluate reported a change")
	}
}

func TestSlotEndsBelowThreshold(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	led := &fakeLedger{}
	svc := newTestService(slots, admissions, led, clk)

	id := seedSlot(slots, domain.SlotWaiting, base.Add(time.Hour), base.Add(3*time.Hour))
	admissions.add(1, id, domain.AdmissionApproved)
	admissions.add(2, id, domain.AdmissionApproved)
	admissions.add(3, id, domain.AdmissionApproved)
	admissions.add(4, id, domain.AdmissionPending)
	admissions.add(5, id, domain.AdmissionPending)

	clk.Advance(time.Hour)

	changed, err := svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	if !changed {
		t.Fatal("expected transition at start time")
	}

	got, _ := slots.FindByID(context.Background(), id)
	if got.Status != domain.SlotEnded {
		t.Fatalf("slot status = %s, want ENDED", got.Status)
	}

	// both pendings auto-rejected with the fixed comment and one ledger
	// entry each
	for _, recID := range []uint64{4, 5} {
		rec := admissions.records[recID]
		if rec.Status != domain.AdmissionRejected {
			t.Errorf("admission %d status = %s, want REJECTED", recID, rec.Status)
		}
		if rec.Comment != ExpiredComment {
			t.Errorf("admission %d comment = %q, want %q", recID, rec.Comment, ExpiredComment)
		}
	}
	if got := led.countAction(domain.ActionReject); got != 2 {
		t.Errorf("REJECT ledger entries = %d, want 2", got)
	}

	// a second pass neither flips anything back nor re-rejects
	changed, err = svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("second Reevaluate: %v", err)
	}
	if changed {
		t.Error("ended slot reported a change")
	}
	if got := led.countAction(domain.ActionReject); got != 2 {
		t.Errorf("REJECT ledger entries after rerun = %d, want 2", got)
	}
}

func TestLiveSlotEndsWithoutRejectingPending(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	led := &fakeLedger{}
	svc := newTestService(slots, admissions, led, clk)

	id := seedSlot(slots, domain.SlotLive, base.Add(-2*time.Hour), base.Add(-time.Minute))
	admissions.add(1, id, domain.AdmissionPending)

	changed, err := svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	if !changed {
		t.Fatal("expected LIVE slot past its end to end")
	}

	got, _ := slots.FindByID(context.Background(), id)
	if got.Status != domain.SlotEnded {
		t.Fatalf("slot status = %s, want ENDED", got.Status)
	}
	// auto-reject applies only when the slot never went live
	if admissions.records[1].Status != domain.AdmissionPending {
		t.Errorf("pending admission was touched on LIVE to ENDED transition")
	}
	if got := led.countAction(domain.ActionReject); got != 0 {
		t.Errorf("REJECT ledger entries = %d, want 0", got)
	}
}

func TestEndedSlotNeverRegresses(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	svc := newTestService(slots, admissions, &fakeLedger{}, clk)

	id := seedSlot(slots, domain.SlotEnded, base.Add(-time.Hour), base.Add(time.Hour))
	for i := uint64(1); i <= testThreshold; i++ {
		admissions.add(i, id, domain.AdmissionApproved)
	}

	changed, err := svc.Reevaluate(context.Background(), id)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	if changed {
		t.Error("ENDED slot transitioned")
	}
	got, _ := slots.FindByID(context.Background(), id)
	if got.Status != domain.SlotEnded {
		t.Errorf("slot status = %s, want ENDED", got.Status)
	}
}

func TestReconcileSweepsAllSlots(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	svc := newTestService(slots, admissions, &fakeLedger{}, clk)

	// due to go live
	liveID := seedSlot(slots, domain.SlotWaiting, base.Add(-time.Minute), base.Add(2*time.Hour))
	for i := uint64(1); i <= testThreshold; i++ {
		admissions.add(i, liveID, domain.AdmissionApproved)
	}
	// due to end, below threshold
	endID := seedSlot(slots, domain.SlotWaiting, base.Add(-time.Minute), base.Add(2*time.Hour))
	// not due yet
	futureID := seedSlot(slots, domain.SlotWaiting, base.Add(time.Hour), base.Add(2*time.Hour))
	// already ended
	seedSlot(slots, domain.SlotEnded, base.Add(-3*time.Hour), base.Add(-time.Hour))

	changed, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}

	if s, _ := slots.FindByID(context.Background(), liveID); s.Status != domain.SlotLive {
		t.Errorf("slot %d status = %s, want LIVE", liveID, s.Status)
	}
	if s, _ := slots.FindByID(context.Background(), endID); s.Status != domain.SlotEnded {
		t.Errorf("slot %d status = %s, want ENDED", endID, s.Status)
	}
	if s, _ := slots.FindByID(context.Background(), futureID); s.Status != domain.SlotWaiting {
		t.Errorf("slot %d status = %s, want WAITING", futureID, s.Status)
	}

	// reconciliation is idempotent
	changed, err = svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if changed != 0 {
		t.Errorf("second sweep changed = %d, want 0", changed)
	}
}

func TestReconcileContinuesPastFailingSlot(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(base)
	slots := newFakeSlotRepo()
	admissions := newFakeAdmissionStore()
	svc := newTestService(slots, admissions, &fakeLedger{}, clk)

	brokenID := seedSlot(slots, domain.SlotWaiting, base.Add(-time.Minute), base.Add(2*time.Hour))
	liveID := seedSlot(slots, domain.SlotWaiting, base.Add(-time.Minute), base.Add(2*time.Hour))
	for i := uint64(1); i <= testThreshold; i++ {
		admissions.add(i, liveID, domain.AdmissionApproved)
	}

	admissions.countErr = map[uint64]error{brokenID: errors.New("connection reset")}

	changed, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile must not fail the sweep on one slot: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}

	if s, _ := slots.FindByID(context.Background(), brokenID); s.Status != domain.SlotWaiting {
		t.Errorf("failing slot status = %s, want WAITING untouched", s.Status)
	}
	if s, _ := slots.FindByID(context.Background(), liveID); s.Status != domain.SlotLive {
		t.Errorf("healthy slot status = %s, want LIVE", s.Status)
	}

	// the skipped slot transitions once its store recovers
	admissions.countErr = nil
	changed, err = svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("recovery Reconcile: %v", err)
	}
	if changed != 1 {
		t.Errorf("recovery sweep changed = %d, want 1", changed)
	}
	if s, _ := slots.FindByID(context.Background(), brokenID); s.Status != domain.SlotEnded {
		t.Errorf("recovered slot status = %s, want ENDED below threshold", s.Status)
	}
}

func TestTargetStatusTable(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot := domain.Slot{StartTime: base, EndTime: base.Add(time.Hour)}

	cases := []struct {
		name     string
		status   domain.SlotStatus
		now      time.Time
		approved int64
		want     domain.SlotStatus
	}{
		{"waiting before start", domain.SlotWaiting, base.Add(-time.Minute), 10, domain.SlotWaiting},
		{"waiting at start with quorum", domain.SlotWaiting, base, testThreshold, domain.SlotLive},
		{"waiting at start below quorum", domain.SlotWaiting, base, testThreshold - 1, domain.SlotEnded},
		{"live before end", domain.SlotLive, base.Add(30 * time.Minute), testThreshold, domain.SlotLive},
		{"live at end", domain.SlotLive, base.Add(time.Hour), testThreshold, domain.SlotEnded},
		{"ended stays ended", domain.SlotEnded, base.Add(-time.Hour), 10, domain.SlotEnded},
		{"waiting past end", domain.SlotWaiting, base.Add(2 * time.Hour), 10, domain.SlotEnded},
	}

	for _, tc := range cases {
		s := slot
		s.Status = tc.status
		if got := targetStatus(s, tc.now, tc.approved, testThreshold); got != tc.want {
			t.Errorf("%s: targetStatus = %s, want %s", tc.name, got, tc.want)
		}
	}
}
