package merchant

import (
	"context"
	"errors"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// MerchantRepository contract interface
type MerchantRepository interface {
	Create(ctx context.Context, profile *domain.MerchantProfile) error
	FindByID(ctx context.Context, id uint64) (domain.MerchantProfile, error)
	FindByUserID(ctx context.Context, userID uint) (domain.MerchantProfile, error)
}

// UserDirectory contract interface
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type merchantService struct {
	merchantRepo MerchantRepository
	userRepo     UserDirectory
}

func NewMerchantService(merchantRepo MerchantRepository, userRepo UserDirectory) *merchantService {
	return &merchantService{
		merchantRepo: merchantRepo,
		userRepo:     userRepo,
	}
}

// CreateProfile attaches the business-facing profile to a MERCHANT user.
func (s *merchantService) CreateProfile(ctx context.Context, profile *domain.MerchantProfile) (*domain.MerchantProfile, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create merchant profile")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if profile.BusinessName == "" {
		logger.Error("Invalid merchant profile: business name is required")
		return nil, errors.New("business name is required")
	}

	if profile.WhatsappNumber == "" {
		logger.Error("Invalid merchant profile: whatsapp number is required")
		return nil, errors.New("whatsapp number is required")
	}

	user, err := s.userRepo.FindByID(ctx, profile.UserID)
	if err != nil {
		logger.Error("merchant user not found", err)
		return nil, err
	}

	if user.Role != domain.RoleMerchant {
		return nil, fmt.Errorf("user %d is not a merchant: %w", profile.UserID, domain.ErrUnauthorized)
	}

	if err := s.merchantRepo.Create(ctx, profile); err != nil {
		logger.Error("failed to create merchant profile", err)
		return nil, err
	}

	logger.Info("merchant profile created", "merchant_id", profile.ID, "user_id", profile.UserID)

	return profile, nil
}

func (s *merchantService) GetProfileByUserID(ctx context.Context, userID uint) (domain.MerchantProfile, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get merchant profile")
		return domain.MerchantProfile{}, fmt.Errorf("context error: %w", err)
	}

	return s.merchantRepo.FindByUserID(ctx, userID)
}
