package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SlotService interface {
	CreateSlot(ctx context.Context, input domain.Slot, creatorUserID uint) (domain.Slot, error)
	GetSlot(ctx context.Context, id uint64) (domain.Slot, error)
	GetAllSlots(ctx context.Context) ([]domain.Slot, error)
	Reconcile(ctx context.Context) (int, error)
}

type SlotHandler struct {
	slotService SlotService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewSlotHandler(slotService SlotService) *SlotHandler {
	return &SlotHandler{
		slotService: slotService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CreateSlotRequest struct {
	Name      string    `json:"name" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Intensity string    `json:"intensity"`
	Premium   bool      `json:"premium"`
}

func (h *SlotHandler) CreateSlot(c echo.Context) error {
	var req CreateSlotRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate slot request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	slot, err := h.slotService.CreateSlot(ctx, domain.Slot{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Intensity: req.Intensity,
		Premium:   req.Premium,
	}, userID)
	if err != nil {
		logger.Error("Failed to create slot", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Slot created successfully",
		"slot":    slot,
	})
}

func (h *SlotHandler) GetAllSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	slots, err := h.slotService.GetAllSlots(ctx)
	if err != nil {
		logger.Error("Failed to find all slots", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all slots",
		"slots":   slots,
	})
}

func (h *SlotHandler) GetSlotByID(c echo.Context) error {
	slotIdStr := c.Param("id")

	slotId, err := strconv.ParseUint(slotIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid slot id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	slot, err := h.slotService.GetSlot(ctx, slotId)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find slot by id",
		"slot":    slot,
	})
}

// ReconcileSlots runs one synchronous reconciliation sweep, the same one the
// background ticker runs on an interval.
func (h *SlotHandler) ReconcileSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	changed, err := h.slotService.Reconcile(ctx)
	if err != nil {
		logger.Error("Failed to reconcile slots", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reconciliation complete",
		"changed": changed,
	})
}
