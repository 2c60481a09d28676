package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
)

// fail logs a service error under op and converts it to the client response.
// Causes of 5xx responses stay in the log.
func fail(c echo.Context, l *slog.Logger, op string, err error, internalMsg string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op+"_error", "status", 422, "reason", "validation", "error", err)
		return c.JSON(http.StatusUnprocessableEntity, validationResponse{Errors: map[string]string{"request": err.Error()}})
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_error", "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn(op+"_error", "status", 400, "reason", "empty cart", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Your cart is empty")
	case errors.Is(err, service.ErrNotCancellable):
		l.Warn(op+"_error", "status", 400, "reason", "not cancellable", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Only pending orders can be cancelled")
	case errors.Is(err, service.ErrConflict):
		l.Warn(op+"_error", "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "request already in progress")
	default:
		l.Error(op+"_error", "status", 500, "reason", internalMsg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg)
	}
}

func notFoundMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrNotFound.Error()+": ")
	if msg == service.ErrNotFound.Error() {
		return "not found"
	}
	return msg
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(v), nil
}
