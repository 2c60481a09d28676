package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(c, l, "get_cart", err, "cannot load cart")
	}

	l.Info("get_cart_success", "items", len(cart.Items))
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 422, "reason", "validation", "error", err)
		return unprocessable(c, err)
	}

	created, err := h.Svc.AddToCart(ctx, userID, productID, req.Quantity)
	if err != nil {
		return fail(c, l, "add_to_cart", err, "cannot add product to cart")
	}

	msg := "Cart updated successfully."
	if created {
		msg = "Product added to cart."
	}
	l.Info("add_to_cart_success", "product_id", productID, "created", created)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: msg})
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("update_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_cart_error", "status", 422, "reason", "validation", "error", err)
		return unprocessable(c, err)
	}

	item, err := h.Svc.UpdateCartItem(ctx, userID, productID, req.Quantity)
	if err != nil {
		return fail(c, l, "update_cart", err, "cannot update cart")
	}

	l.Info("update_cart_success", "product_id", productID)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, productID); err != nil {
		return fail(c, l, "remove_from_cart", err, "cannot remove product from cart")
	}

	l.Info("remove_from_cart_success", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product removed from cart."})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("clear_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(c, l, "clear_cart", err, "cannot clear cart")
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Cart cleared."})
}
