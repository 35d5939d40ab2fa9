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

type AdmissionService interface {
	Submit(ctx context.Context, productID, slotID uint64, merchantID uint64) (domain.AdmissionRecord, error)
	Withdraw(ctx context.Context, recordID uint64, merchantID uint64) (domain.AdmissionRecord, error)
	GetRecord(ctx context.Context, id uint64) (domain.AdmissionRecord, error)
	GetBySlot(ctx context.Context, slotID uint64) ([]domain.AdmissionRecord, error)
}

// MerchantDirectory resolves the logged in user to their merchant profile
type MerchantDirectory interface {
	GetProfileByUserID(ctx context.Context, userID uint) (domain.MerchantProfile, error)
}

type AdmissionHandler struct {
	admissionService AdmissionService
	merchants        MerchantDirectory
	validator        *validator.Validate
	timeout          time.Duration
}

func NewAdmissionHandler(admissionService AdmissionService, merchants MerchantDirectory) *AdmissionHandler {
	return &AdmissionHandler{
		admissionService: admissionService,
		merchants:        merchants,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type SubmitAdmissionRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	SlotID    uint64 `json:"slot_id" validate:"required"`
}

func (h *AdmissionHandler) Submit(c echo.Context) error {
	var req SubmitAdmissionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate admission request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	record, err := h.admissionService.Submit(ctx, req.ProductID, req.SlotID, profile.ID)
	if err != nil {
		logger.Error("Failed to submit admission", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Admission submitted successfully",
		"admission": record,
	})
}

func (h *AdmissionHandler) Withdraw(c echo.Context) error {
	recordIdStr := c.Param("id")

	recordId, err := strconv.ParseUint(recordIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid admission id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.merchants.GetProfileByUserID(ctx, userID)
	if err != nil {
		logger.Error("Merchant profile not found", err)
		return domainError(c, err)
	}

	record, err := h.admissionService.Withdraw(ctx, recordId, profile.ID)
	if err != nil {
		logger.Error("Failed to withdraw admission", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Admission withdrawn successfully",
		"admission": record,
	})
}

func (h *AdmissionHandler) GetByID(c echo.Context) error {
	recordIdStr := c.Param("id")

	recordId, err := strconv.ParseUint(recordIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid admission id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record, err := h.admissionService.GetRecord(ctx, recordId)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully find admission by id",
		"admission": record,
	})
}

func (h *AdmissionHandler) GetBySlot(c echo.Context) error {
	slotIdStr := c.Param("id")

	slotId, err := strconv.ParseUint(slotIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid slot id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	records, err := h.admissionService.GetBySlot(ctx, slotId)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get slot admissions",
		"admissions": records,
	})
}
