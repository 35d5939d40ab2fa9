package postgres

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"

	"gorm.io/gorm"
)

type MerchantRepository struct {
	DB *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{
		DB: db,
	}
}

func (r *MerchantRepository) Create(ctx context.Context, profile *domain.MerchantProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("merchant profile for user %d already exists: %w",
				profile.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create merchant profile: %w", err)
	}

	return nil
}

func (r *MerchantRepository) FindByID(ctx context.Context, id uint64) (domain.MerchantProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.MerchantProfile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.MerchantProfile
	err := r.DB.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MerchantProfile{}, fmt.Errorf("merchant profile %d: %w", id, domain.ErrNotFound)
		}
		return domain.MerchantProfile{}, fmt.Errorf("failed to find merchant profile: %w", err)
	}

	return profile, nil
}

func (r *MerchantRepository) FindByUserID(ctx context.Context, userID uint) (domain.MerchantProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.MerchantProfile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.MerchantProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MerchantProfile{}, fmt.Errorf("merchant profile for user %d: %w", userID, domain.ErrNotFound)
		}
		return domain.MerchantProfile{}, fmt.Errorf("failed to find merchant profile: %w", err)
	}

	return profile, nil
}
