package rest

import (
	"context"
	"net/http"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ModeratorHandler struct {
		validate       *validator.Validate
		profileService ModeratorProfileService
	}

	ModeratorProfileService interface {
		CreateProfile(ctx context.Context, userID uint) (*domain.ModeratorProfile, error)
		AssignCategory(ctx context.Context, moderatorUserID uint, categoryID uint64) (domain.ModeratorProfile, error)
		GetProfileByUserID(ctx context.Context, userID uint) (domain.ModeratorProfile, error)
	}

	AssignCategoryInput struct {
		CategoryID uint64 `json:"category_id" validate:"required"`
	}
)

func NewModeratorHandler(profileService ModeratorProfileService) *ModeratorHandler {
	return &ModeratorHandler{
		validate:       validator.New(),
		profileService: profileService,
	}
}

func (h *ModeratorHandler) CreateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.CreateProfile(ctx, userID)
	if err != nil {
		logger.Error("Failed to create moderator profile", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(profile))
}

func (h *ModeratorHandler) AssignCategory(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var request AssignCategoryInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate category assignment", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.AssignCategory(ctx, userID, request.CategoryID)
	if err != nil {
		logger.Error("Failed to assign category", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

func (h *ModeratorHandler) GetMyProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to find moderator profile", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
