package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
	"github.com/Skotchmaster/scrap_market/services/market/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, l, "get_product", err, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "get_products", err, "cannot list products")
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, productPage(items, page, offset, limit, total))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_products_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return fail(c, l, "search_products", err, "search failed")
	}

	l.Info("search_products_success", "total", total)
	return c.JSON(http.StatusOK, productPage(items, page, offset, limit, total))
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(c, l, "list_categories", err, "Failed to fetch categories")
	}

	l.Info("list_categories_success", "categories", len(categories))
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_review")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("add_review_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseID(c, "id")
	if err != nil {
		l.Warn("add_review_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_review_error", "status", 422, "reason", "validation", "error", err)
		return unprocessable(c, err)
	}

	review, err := h.Svc.AddReview(ctx, userID, productID, req.Comment, req.Rating)
	if err != nil {
		return fail(c, l, "add_review", err, "Error submitting review")
	}

	l.Info("add_review_success", "product_id", productID, "review_id", review.ID)
	return c.JSON(http.StatusCreated, transport.ReviewResponse{
		Message: "Review submitted successfully.",
		Review:  review,
	})
}

func productPage(items []transport.ProductResponse, page, offset, limit int, total int64) transport.ProductPage {
	if page < 1 {
		page = 1
	}
	return transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}
