package domain

import (
	"time"
)

// CREATE TABLE public.ledger_entries (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     entry_id      UUID NOT NULL UNIQUE,
//     admission_id  BIGINT NULL REFERENCES admission_records(id) ON DELETE CASCADE,
//     moderator_id  BIGINT NULL REFERENCES users(id),
//     action        TEXT NOT NULL,
//     comment       TEXT,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type LedgerAction string

const (
	ActionPending    LedgerAction = "PENDING"
	ActionApprove    LedgerAction = "APPROVE"
	ActionReject     LedgerAction = "REJECT"
	ActionRemove     LedgerAction = "REMOVE"
	ActionCreateSlot LedgerAction = "CREATE_SLOT"
)

// LedgerEntry is one immutable audit record of a lifecycle transition.
// Entries are append-only: never updated, never deleted except by the cascade
// of their owning admission record. AdmissionID is nil for CREATE_SLOT
// entries, ModeratorID is nil for system-generated transitions.
type LedgerEntry struct {
	ID          uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID     string       `gorm:"column:entry_id;type:uuid;uniqueIndex;not null" json:"entry_id"`
	AdmissionID *uint64      `gorm:"column:admission_id;index" json:"admission_id,omitempty"`
	ModeratorID *uint        `gorm:"column:moderator_id" json:"moderator_id,omitempty"`
	Action      LedgerAction `gorm:"column:action;type:text;not null" json:"action"`
	Comment     string       `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt   time.Time    `gorm:"column:created_at;index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
