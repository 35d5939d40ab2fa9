package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"flashMarket/business/moderation"
	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ModerationService interface {
	Decide(ctx context.Context, moderatorUserID uint, admissionID uint64, decision moderation.Decision, comment string) (domain.AdmissionRecord, error)
}

type ModerationHandler struct {
	moderationService ModerationService
	validator         *validator.Validate
	timeout           time.Duration
}

func NewModerationHandler(moderationService ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		validator:         validator.New(),
		timeout:           10 * time.Second,
	}
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
	Comment  string `json:"comment"`
}

// Decide applies a moderator decision (approve, reject or remove) to an
// admission record.
func (h *ModerationHandler) Decide(c echo.Context) error {
	recordIdStr := c.Param("id")

	recordId, err := strconv.ParseUint(recordIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid admission id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req DecisionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate decision request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	decision, err := moderation.ParseDecision(req.Decision)
	if err != nil {
		logger.Error("Invalid decision", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record, err := h.moderationService.Decide(ctx, userID, recordId, decision, req.Comment)
	if err != nil {
		logger.Error("Failed to apply moderation decision", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Decision applied successfully",
		"admission": record,
	})
}
