package domain

import (
	"time"
)

// CREATE TABLE public.moderator_profiles (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT NOT NULL UNIQUE REFERENCES users(id),
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );
// CREATE TABLE public.moderator_categories (
//     moderator_profile_id BIGINT REFERENCES moderator_profiles(id),
//     category_id          BIGINT REFERENCES categories(id),
//     PRIMARY KEY (moderator_profile_id, category_id)
// );

// ModeratorProfile assigns a moderator their categories of responsibility.
// Decisions outside the assigned set are rejected by the moderation gateway.
// Membership in the reserved SlotManagerCategory grants slot creation.
type ModeratorProfile struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Categories []Category `gorm:"many2many:moderator_categories" json:"categories"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (ModeratorProfile) TableName() string {
	return "moderator_profiles"
}

// Handles reports whether the moderator is assigned the given category.
func (m ModeratorProfile) Handles(categoryID uint64) bool {
	for _, c := range m.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// CanManageSlots reports whether the moderator is assigned the reserved
// slot-manager category.
func (m ModeratorProfile) CanManageSlots() bool {
	for _, c := range m.Categories {
		if c.Name == SlotManagerCategory {
			return true
		}
	}
	return false
}
