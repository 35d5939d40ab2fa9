//go:build !integration

package ledger

import (
	"context"
	"testing"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/clock"
)

type fakeLedgerRepo struct {
	entries []domain.LedgerEntry
}

func (r *fakeLedgerRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) ExistsMatching(ctx context.Context, admissionID uint64, action domain.LedgerAction, comment string) (bool, error) {
	for _, e := range r.entries {
		if e.AdmissionID != nil && *e.AdmissionID == admissionID && e.Action == action && e.Comment == comment {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLedgerRepo) FindByAdmission(ctx context.Context, admissionID uint64) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.AdmissionID != nil && *e.AdmissionID == admissionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) FindByProduct(ctx context.Context, productID uint64) ([]domain.LedgerEntry, error) {
	return r.entries, nil
}

func (r *fakeLedgerRepo) FindBySlot(ctx context.Context, slotID uint64) ([]domain.LedgerEntry, error) {
	return r.entries, nil
}

func admID(id uint64) *uint64 { return &id }
func modID(id uint) *uint     { return &id }

func TestRecordDedupesSettlingActions(t *testing.T) {
	repo := &fakeLedgerRepo{}
	svc := NewLedgerService(repo, clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	if err := svc.Record(context.Background(), admID(1), modID(3), domain.ActionApprove, "approved for the flash sale"); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	// the same observation logged again by a second trigger
	if err := svc.Record(context.Background(), admID(1), modID(3), domain.ActionApprove, "approved for the flash sale"); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
}

func TestRecordDifferentCommentIsNotDeduped(t *testing.T) {
	repo := &fakeLedgerRepo{}
	svc := NewLedgerService(repo, clock.NewFixed(time.Now()))

	if err := svc.Record(context.Background(), admID(1), modID(3), domain.ActionReject, "blurry photos"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(context.Background(), admID(1), modID(3), domain.ActionReject, "wrong price"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(repo.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(repo.entries))
	}
}

func TestRecordNeverDedupesPending(t *testing.T) {
	repo := &fakeLedgerRepo{}
	svc := NewLedgerService(repo, clock.NewFixed(time.Now()))

	if err := svc.Record(context.Background(), admID(1), nil, domain.ActionPending, "submitted for moderation"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(context.Background(), admID(1), nil, domain.ActionPending, "submitted for moderation"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(repo.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(repo.entries))
	}
}

func TestRecordSlotCreationEntry(t *testing.T) {
	repo := &fakeLedgerRepo{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewLedgerService(repo, clock.NewFixed(at))

	if err := svc.Record(context.Background(), nil, modID(3), domain.ActionCreateSlot, `slot "evening rush" created`); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.EntryID == "" {
		t.Error("entry id is empty")
	}
	if entry.AdmissionID != nil {
		t.Error("slot creation entry carries an admission id")
	}
	if !entry.CreatedAt.Equal(at) {
		t.Errorf("created at = %v, want %v", entry.CreatedAt, at)
	}
}
