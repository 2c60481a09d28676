package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type RecommendHTTP struct {
	Svc *service.RecommendService
}

func (h *RecommendHTTP) GetRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendations.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("recommendations_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	recs, err := h.Svc.Recommend(ctx, userID)
	if err != nil {
		return fail(c, l, "recommendations", err, "cannot load recommendations")
	}

	if recs.Message != "" {
		l.Info("recommendations_success", "mode", "popular", "items", len(recs.Items))
		return c.JSON(http.StatusOK, transport.RecommendationsFallback{
			Message:         recs.Message,
			Recommendations: recs.Items,
		})
	}

	l.Info("recommendations_success", "mode", "personalised", "items", len(recs.Items))
	return c.JSON(http.StatusOK, recs.Items)
}
