package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("get_wishlist_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(c, l, "get_wishlist", err, "cannot load wishlist")
	}

	l.Info("get_wishlist_success", "items", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *WishlistHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("add_to_wishlist_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("add_to_wishlist_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.Svc.Add(ctx, userID, productID)
	if err != nil {
		return fail(c, l, "add_to_wishlist", err, "cannot add product to wishlist")
	}

	if !created {
		l.Info("add_to_wishlist_success", "product_id", productID, "created", false)
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product already in wishlist."})
	}
	l.Info("add_to_wishlist_success", "product_id", productID, "created", true)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Product added to wishlist."})
}

func (h *WishlistHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("remove_from_wishlist_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_wishlist_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Remove(ctx, userID, productID); err != nil {
		return fail(c, l, "remove_from_wishlist", err, "cannot remove product from wishlist")
	}

	l.Info("remove_from_wishlist_success", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product removed from wishlist."})
}
