package domain

import (
	"time"
)

// CREATE TABLE public.categories (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name         TEXT NOT NULL UNIQUE,
//     description  TEXT,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

// SlotManagerCategory is the reserved category whose assigned moderators hold
// the slot-creation capability. It is never attached to products.
const SlotManagerCategory = "Slot Manager"

type Category struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
