package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type SellerHTTP struct {
	Svc *service.OrderService
}

func (h *SellerHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.list_orders")

	sellerID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("seller_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListSellerOrders(ctx, sellerID)
	if err != nil {
		return fail(c, l, "seller_orders", err, "cannot load seller orders")
	}

	l.Info("seller_orders_success", "orders", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *SellerHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.update_status")

	sellerID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("update_status_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid order id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_status_error", "status", 422, "reason", "validation", "error", err)
		return unprocessable(c, err)
	}

	res, err := h.Svc.UpdateStatus(ctx, orderID, sellerID, models.OrderStatus(req.Status), req.ItemID)
	if err != nil {
		return fail(c, l, "update_status", err, "cannot update order status")
	}

	l.Info("update_status_success", "order_id", orderID, "status", res.Status, "rolled_up", res.RolledUp)
	return c.JSON(http.StatusOK, transport.UpdateStatusResponse{
		Message: "Order status updated successfully",
		Status:  res.Status,
	})
}
