package domain

import (
	"time"
)

// CREATE TABLE public.admission_records (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id  BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
//     slot_id     BIGINT NOT NULL REFERENCES slots(id) ON DELETE CASCADE,
//     status      TEXT NOT NULL DEFAULT 'PENDING',
//     comment     TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ,
//     UNIQUE (product_id, slot_id)
// );

type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "PENDING"
	AdmissionApproved AdmissionStatus = "APPROVED"
	AdmissionRejected AdmissionStatus = "REJECTED"
	AdmissionRemoved  AdmissionStatus = "REMOVED"
)

// AdmissionRecord tracks one product's candidacy for one slot. The pair is
// unique; the record is created PENDING and settles exactly once via a
// moderator decision, a merchant withdrawal, or the expiry auto-reject.
type AdmissionRecord struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64          `gorm:"column:product_id;not null;uniqueIndex:idx_admission_pair" json:"product_id"`
	SlotID    uint64          `gorm:"column:slot_id;not null;uniqueIndex:idx_admission_pair;index" json:"slot_id"`
	Status    AdmissionStatus `gorm:"column:status;type:text;default:PENDING;index" json:"status"`
	Comment   string          `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Entries []LedgerEntry `gorm:"foreignKey:AdmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AdmissionRecord) TableName() string {
	return "admission_records"
}

// Settled reports whether the record already left PENDING.
func (a AdmissionRecord) Settled() bool {
	return a.Status != AdmissionPending
}
