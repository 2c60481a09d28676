package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("checkout_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var key string
	if raw := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			l.Warn("checkout_error", "status", 400, "reason", "invalid idempotency key", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key must be a UUID")
		}
		key = parsed.String()
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("checkout_error", "status", 422, "reason", "validation", "error", err)
		return unprocessable(c, err)
	}

	res, err := h.Svc.Checkout(ctx, userID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
		IdempotencyKey:  key,
	})
	if err != nil {
		return fail(c, l, "checkout", err, "could not place order")
	}

	code := http.StatusCreated
	if res.Replayed {
		code = http.StatusOK
	}
	l.Info("checkout_success", "order_id", res.Order.ID, "replayed", res.Replayed)
	return c.JSON(code, transport.CheckoutResponse{
		Message: "Order placed successfully",
		OrderID: res.Order.ID,
		Status:  res.Order.Status,
	})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListUserOrders(ctx, userID)
	if err != nil {
		return fail(c, l, "list_orders", err, "cannot load orders")
	}

	l.Info("list_orders_success", "orders", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) PurchaseHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("purchase_history_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	history, err := h.Svc.PurchaseHistory(ctx, userID)
	if err != nil {
		return fail(c, l, "purchase_history", err, "Failed to fetch purchase history")
	}

	l.Info("purchase_history_success", "items", len(history))
	return c.JSON(http.StatusOK, history)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "invalid order id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.GetOrderDetails(ctx, userID, orderID)
	if err != nil {
		return fail(c, l, "get_order", err, "cannot load order")
	}

	l.Info("get_order_success", "order_id", orderID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("cancel_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		l.Warn("cancel_order_error", "status", 400, "reason", "invalid order id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.CancelOrder(ctx, userID, orderID); err != nil {
		return fail(c, l, "cancel_order", err, "cannot cancel order")
	}

	l.Info("cancel_order_success", "order_id", orderID)
	return c.JSON(http.StatusOK, transport.UpdateStatusResponse{
		Message: "Order cancelled successfully",
		Status:  models.StatusCancelled,
	})
}
