package rest

import (
	"errors"
	"net/http"

	"flashMarket/domain"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// domainError maps the shared sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrStaleState):
		return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrGuardViolation):
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ResponseError{Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
}
