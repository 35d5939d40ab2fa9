package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

type LedgerService interface {
	HistoryByProduct(ctx context.Context, productID uint64) ([]domain.LedgerEntry, error)
	HistoryBySlot(ctx context.Context, slotID uint64) ([]domain.LedgerEntry, error)
}

type HistoryHandler struct {
	ledgerService LedgerService
	timeout       time.Duration
}

func NewHistoryHandler(ledgerService LedgerService) *HistoryHandler {
	return &HistoryHandler{
		ledgerService: ledgerService,
		timeout:       10 * time.Second,
	}
}

// ByProduct returns the moderation history of a product, most recent first.
func (h *HistoryHandler) ByProduct(c echo.Context) error {
	productIdStr := c.Param("id")

	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.ledgerService.HistoryByProduct(ctx, productId)
	if err != nil {
		logger.Error("Failed to get product history", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get product history",
		"history": entries,
	})
}

// BySlot returns the moderation history of a slot, most recent first.
func (h *HistoryHandler) BySlot(c echo.Context) error {
	slotIdStr := c.Param("id")

	slotId, err := strconv.ParseUint(slotIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid slot id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.ledgerService.HistoryBySlot(ctx, slotId)
	if err != nil {
		logger.Error("Failed to get slot history", err)
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get slot history",
		"history": entries,
	})
}
