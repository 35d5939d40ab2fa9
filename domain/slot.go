package domain

import (
	"time"
)

// CREATE TABLE public.slots (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL UNIQUE,
//     start_time  TIMESTAMPTZ NOT NULL,
//     end_time    TIMESTAMPTZ NOT NULL,
//     status      TEXT NOT NULL DEFAULT 'WAITING',
//     intensity   TEXT,
//     premium     BOOLEAN DEFAULT FALSE,
//     created_by  BIGINT NULL REFERENCES users(id),
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type SlotStatus string

const (
	SlotWaiting SlotStatus = "WAITING"
	SlotLive    SlotStatus = "LIVE"
	SlotEnded   SlotStatus = "ENDED"
)

// Slot is a time-bounded flash-sale window. Status only ever moves forward:
// WAITING -> LIVE -> ENDED, or WAITING -> ENDED when the approved count missed
// the threshold at start time.
type Slot struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"column:name;type:text;uniqueIndex;not null" json:"name"`
	StartTime time.Time  `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   time.Time  `gorm:"column:end_time;not null" json:"end_time"`
	Status    SlotStatus `gorm:"column:status;type:text;default:WAITING;index" json:"status"`
	Intensity string     `gorm:"column:intensity;type:text" json:"intensity"`
	Premium   bool       `gorm:"column:premium;default:false" json:"premium"`
	CreatedBy *uint      `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`

	Admissions []AdmissionRecord `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Slot) TableName() string {
	return "slots"
}

// IsWaiting reports whether the slot still accepts submissions and decisions.
func (s Slot) IsWaiting() bool {
	return s.Status == SlotWaiting
}
