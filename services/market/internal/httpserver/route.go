package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scrap_market/pkg/metrics"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler   *CatalogHTTP
	CartHandler      *CartHTTP
	WishlistHandler  *WishlistHTTP
	OrderHandler     *OrderHTTP
	SellerHandler    *SellerHTTP
	RecommendHandler *RecommendHTTP
	HealthHandler    *HealthHTTP
	JWTSecret        []byte
	// AuthClient refreshes expired access tokens. Leave nil to reject them instead.
	AuthClient middleware.Refresher
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewRequestValidator()

	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	api := e.Group("/api/v1")

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("/:id/reviews", d.CatalogHandler.AddReview, authMW.RequireAuth)

	api.GET("/categories", d.CatalogHandler.ListCategories)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/:product_id", d.CartHandler.AddToCart)
	cart.PATCH("/:product_id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/:product_id", d.CartHandler.RemoveFromCart)

	wishlist := api.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.WishlistHandler.GetWishlist)
	wishlist.POST("/:product_id", d.WishlistHandler.AddToWishlist)
	wishlist.DELETE("/:product_id", d.WishlistHandler.RemoveFromWishlist)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/history", d.OrderHandler.PurchaseHistory)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	seller := api.Group("/seller", authMW.RequireAuth)
	seller.GET("/orders", d.SellerHandler.ListOrders)
	seller.PATCH("/orders/:id/status", d.SellerHandler.UpdateStatus)

	api.GET("/recommendations", d.RecommendHandler.GetRecommendations, authMW.RequireAuth)
}
