package moderation

import (
	"context"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// ModeratorProfileRepository contract interface
type ModeratorProfileRepository interface {
	Create(ctx context.Context, profile *domain.ModeratorProfile) error
	FindByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error)
	AssignCategory(ctx context.Context, profileID uint64, category *domain.Category) error
}

// UserDirectory contract interface
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// CategoryDirectory contract interface
type CategoryDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

type profileService struct {
	profileRepo  ModeratorProfileRepository
	userRepo     UserDirectory
	categoryRepo CategoryDirectory
}

func NewProfileService(
	profileRepo ModeratorProfileRepository,
	userRepo UserDirectory,
	categoryRepo CategoryDirectory,
) *profileService {
	return &profileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProfile registers a moderator profile for a user with the moderator
// role. The profile starts with no categories assigned.
func (s *profileService) CreateProfile(ctx context.Context, userID uint) (*domain.ModeratorProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("User not found for moderator profile", err)
		return nil, err
	}

	if user.Role != domain.RoleModerator {
		return nil, fmt.Errorf("user %d does not have the moderator role: %w", userID, domain.ErrUnauthorized)
	}

	profile := &domain.ModeratorProfile{
		UserID: userID,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		logger.Error("Failed to create moderator profile", err)
		return nil, err
	}

	logger.Info("Moderator profile created", "user_id", userID, "profile_id", profile.ID)

	return profile, nil
}

// AssignCategory puts a category into a moderator's set of responsibility.
func (s *profileService) AssignCategory(ctx context.Context, moderatorUserID uint, categoryID uint64) (domain.ModeratorProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModeratorProfile{}, fmt.Errorf("context error: %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, moderatorUserID)
	if err != nil {
		logger.Error("Moderator profile not found", err)
		return domain.ModeratorProfile{}, err
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		logger.Error("Category not found for assignment", err)
		return domain.ModeratorProfile{}, err
	}

	if profile.Handles(category.ID) {
		return profile, nil
	}

	if err := s.profileRepo.AssignCategory(ctx, profile.ID, &category); err != nil {
		logger.Error("Failed to assign category to moderator", err)
		return domain.ModeratorProfile{}, err
	}

	profile.Categories = append(profile.Categories, category)

	logger.Info("Category assigned to moderator",
		"profile_id", profile.ID, "category_id", category.ID)

	return profile, nil
}

// GetProfileByUserID returns the moderator profile with its categories.
func (s *profileService) GetProfileByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModeratorProfile{}, fmt.Errorf("context error: %w", err)
	}

	return s.profileRepo.FindByUserID(ctx, userID)
}
