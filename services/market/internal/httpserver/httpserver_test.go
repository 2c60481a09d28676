package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/events"
	"github.com/Skotchmaster/scrap_market/pkg/tokens"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
	"github.com/Skotchmaster/scrap_market/services/market/internal/testutil"
)

var secret = []byte("http-test-secret")

const (
	buyer   uint = 1
	sellerA uint = 10
	sellerB uint = 20
)

type testEnv struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}
	pub := events.NopPublisher{}

	orderSvc := &service.OrderService{Repo: r, Events: pub, ImageBaseURL: "http://img.test"}
	e := echo.New()
	Register(e, &Deps{
		CatalogHandler:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, ImageBaseURL: "http://img.test"}},
		CartHandler:      &CartHTTP{Svc: &service.CartService{Repo: r, Events: pub, ImageBaseURL: "http://img.test"}},
		WishlistHandler:  &WishlistHTTP{Svc: &service.WishlistService{Repo: r, ImageBaseURL: "http://img.test"}},
		OrderHandler:     &OrderHTTP{Svc: orderSvc},
		SellerHandler:    &SellerHTTP{Svc: orderSvc},
		RecommendHandler: &RecommendHTTP{Svc: &service.RecommendService{Repo: r, ImageBaseURL: "http://img.test"}},
		HealthHandler: &HealthHTTP{Checks: map[string]Pinger{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}},
		JWTSecret: secret,
	})
	return &testEnv{e: e, db: db}
}

func (env *testEnv) do(t *testing.T, method, path string, userID uint, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != 0 {
		tok, err := tokens.NewAccessToken(userID, "user", time.Now().Add(time.Hour), secret)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const checkoutBody = `{"shipping_address":"12 Foundry Lane","contact_phone":"555-0100","payment_method":"credit_card"}`

func TestCheckout_HTTP(t *testing.T) {
	env := newTestEnv(t)
	a := testutil.Product(t, env.db, sellerA, nil, "A", "10.00")
	b := testutil.Product(t, env.db, sellerB, nil, "B", "5.50")
	testutil.CartLine(t, env.db, buyer, a.ID, 2)
	testutil.CartLine(t, env.db, buyer, b.ID, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer, checkoutBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Order placed successfully", resp["message"])
	assert.Equal(t, "pending", resp["status"])
	assert.NotZero(t, resp["order_id"])

	rec = env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer, checkoutBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_HTTPValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer,
		`{"shipping_address":"","contact_phone":"555","payment_method":"barter"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decode[validationResponse](t, rec)
	assert.Contains(t, resp.Errors, "shipping_address")
	assert.Contains(t, resp.Errors, "payment_method")
	assert.NotContains(t, resp.Errors, "contact_phone")
}

func TestCheckout_HTTPUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/orders/checkout", 0, checkoutBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_HTTPIdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	a := testutil.Product(t, env.db, sellerA, nil, "A", "1.00")
	testutil.CartLine(t, env.db, buyer, a.ID, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer, checkoutBody, HeaderIdempotencyKey, "not-a-uuid")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	key := "0b8e6f5a-2c1d-4e3f-9a8b-7c6d5e4f3a2b"
	rec = env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer, checkoutBody, HeaderIdempotencyKey, key)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/orders/checkout", buyer, checkoutBody, HeaderIdempotencyKey, key)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[map[string]any](t, rec)
	assert.Equal(t, first["order_id"], second["order_id"])
}

func TestUpdateStatus_HTTP(t *testing.T) {
	env := newTestEnv(t)
	pa := testutil.Product(t, env.db, sellerA, nil, "A", "1.00")
	order := testutil.Order(t, env.db, buyer, models.StatusPending, pa)
	path := "/api/v1/seller/orders/" + itoa(order.ID) + "/status"

	rec := env.do(t, http.MethodPatch, path, sellerA, `{"status":"lost"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPatch, path, sellerB, `{"status":"shipped"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, path, sellerA, `{"status":"shipped","item_id":`+itoa(order.Items[0].ID)+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Order status updated successfully", resp["message"])
	assert.Equal(t, "shipped", resp["status"])

	var stored models.Order
	require.NoError(t, env.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.StatusShipped, stored.Status)
}

func TestOrders_HTTPReadAndCancel(t *testing.T) {
	env := newTestEnv(t)
	pa := testutil.Product(t, env.db, sellerA, nil, "A", "3.00")
	order := testutil.Order(t, env.db, buyer, models.StatusPending, pa)

	rec := env.do(t, http.MethodGet, "/api/v1/orders", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/orders/"+itoa(order.ID), 99, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/orders", sellerA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = env.do(t, http.MethodPost, "/api/v1/orders/"+itoa(order.ID)+"/cancel", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/orders/"+itoa(order.ID)+"/cancel", buyer, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAndWishlist_HTTP(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.Product(t, env.db, sellerA, nil, "A", "2.00")
	path := "/api/v1/cart/" + itoa(p.ID)

	rec := env.do(t, http.MethodPost, path, buyer, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Product added to cart.", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodPost, path, buyer, `{"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Cart updated successfully.", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodPatch, path, buyer, `{"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	assert.Len(t, cart["items"], 1)
	assert.Equal(t, "6.00", cart["total"])
	line := cart["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "2.00", line["price"])
	assert.Equal(t, "6.00", line["subtotal"])

	rec = env.do(t, http.MethodPost, "/api/v1/cart/9999", buyer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/"+itoa(p.ID), buyer, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/"+itoa(p.ID), buyer, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product already in wishlist.", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodDelete, "/api/v1/wishlist/abc", buyer, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendations_HTTPFallback(t *testing.T) {
	env := newTestEnv(t)
	testutil.Product(t, env.db, sellerA, nil, "A", "2.00")

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, service.MessageNoSignals, resp["message"])
	assert.Len(t, resp["recommendations"], 1)
}

func TestRecommendations_HTTPPersonalised(t *testing.T) {
	env := newTestEnv(t)
	bought := testutil.Product(t, env.db, sellerA, nil, "Bought", "2.00")
	testutil.Order(t, env.db, buyer, models.StatusDelivered, bought)
	testutil.Product(t, env.db, sellerA, nil, "Other", "2.00")

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, service.ReasonSellers, items[0]["recommendation_reason"])
}

func TestCatalog_HTTP(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.Product(t, env.db, sellerA, nil, "Copper kettle", "2.00")

	rec := env.do(t, http.MethodGet, "/api/v1/products/"+itoa(p.ID), 0, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Copper kettle", decode[map[string]any](t, rec)["name"])

	rec = env.do(t, http.MethodGet, "/api/v1/products/404", 0, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products?page=1&size=5", 0, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Len(t, page["data"], 1)

	rec = env.do(t, http.MethodGet, "/api/v1/products/search?q=kettle", 0, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["data"], 1)

	rec = env.do(t, http.MethodGet, "/api/v1/products/search", 0, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesAndReviews_HTTP(t *testing.T) {
	env := newTestEnv(t)
	metal := testutil.Category(t, env.db, "Metal")
	p := testutil.Product(t, env.db, sellerA, metal, "Kettle", "4.00")

	rec := env.do(t, http.MethodGet, "/api/v1/categories", 0, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[[]map[string]any](t, rec)
	require.Len(t, cats, 1)
	assert.Equal(t, "Metal", cats[0]["name"])

	path := "/api/v1/products/" + itoa(p.ID) + "/reviews"
	rec = env.do(t, http.MethodPost, path, 0, `{"comment":"nice","rating":5}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, path, buyer, `{"comment":"nice","rating":9}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[validationResponse](t, rec).Errors, "rating")

	rec = env.do(t, http.MethodPost, "/api/v1/products/9999/reviews", buyer, `{"comment":"nice","rating":4}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found.")

	rec = env.do(t, http.MethodPost, path, buyer, `{"comment":"nice","rating":4}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Review submitted successfully.", resp["message"])
	review := resp["comment"].(map[string]any)
	assert.EqualValues(t, 4, review["rating"])
	assert.EqualValues(t, buyer, review["user_id"])
}

func TestPurchaseHistory_HTTP(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.Product(t, env.db, sellerA, nil, "Kettle", "4.5")
	testutil.Order(t, env.db, buyer, models.StatusDelivered, p)

	rec := env.do(t, http.MethodGet, "/api/v1/orders/history", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	history := decode[[]map[string]any](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "Kettle", history[0]["name"])
	assert.Equal(t, "4.50", history[0]["price"])
	assert.EqualValues(t, sellerA, history[0]["seller_id"])
	assert.NotEmpty(t, history[0]["purchase_date"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", 0, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/ready", 0, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", decode[map[string]string](t, rec)["database"])

	h := &HealthHTTP{Checks: map[string]Pinger{"redis": func(context.Context) error { return errors.New("refused") }}}
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Ready(env.e.NewContext(req, rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
