package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
)

// Pinger is a dependency the service needs to serve traffic.
type Pinger func(ctx context.Context) error

type HealthHTTP struct {
	Checks map[string]Pinger
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "health.ready")

	status := map[string]string{}
	ok := true
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			l.Error("readiness_check_failed", "check", name, "error", err)
			status[name] = "down"
			ok = false
			continue
		}
		status[name] = "up"
	}

	if !ok {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
