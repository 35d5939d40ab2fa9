package postgres

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type ModeratorRepository struct {
	DB *gorm.DB
}

func NewModeratorRepository(db *gorm.DB) *ModeratorRepository {
	return &ModeratorRepository{
		DB: db,
	}
}

func (r *ModeratorRepository) Create(ctx context.Context, profile *domain.ModeratorProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("moderator profile for user %d already exists: %w",
				profile.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create moderator profile: %w", err)
	}

	return nil
}

// FindByUserID loads the profile together with its assigned categories; the
// moderation gateway authorizes against that set.
func (r *ModeratorRepository) FindByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModeratorProfile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.ModeratorProfile
	err := r.DB.WithContext(ctx).
		Preload("Categories").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ModeratorProfile{}, fmt.Errorf("moderator profile for user %d: %w", userID, domain.ErrNotFound)
		}
		return domain.ModeratorProfile{}, fmt.Errorf("failed to find moderator profile: %w", err)
	}

	return profile, nil
}

func (r *ModeratorRepository) AssignCategory(ctx context.Context, profileID uint64, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	profile := domain.ModeratorProfile{ID: profileID}
	if err := r.DB.WithContext(ctx).Model(&profile).Association("Categories").Append(category); err != nil {
		return fmt.Errorf("failed to assign category: %w", err)
	}

	return nil
}
