package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

// Purchase is one line of the buyer's purchase history.
type Purchase struct {
	ProductID    uint
	Name         string
	Category     *string
	SellerID     uint
	Quantity     uint
	Price        decimal.Decimal
	PurchaseDate time.Time
	Status       models.OrderStatus
}

// Purchases lists the items of the user's orders that were not cancelled, newest order first.
func (r *GormRepo) Purchases(ctx context.Context, userID uint) ([]Purchase, error) {
	var out []Purchase
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("products.id AS product_id, products.name AS name, categories.name AS category, "+
			"products.user_id AS seller_id, order_items.quantity AS quantity, order_items.price AS price, "+
			"orders.created_at AS purchase_date, orders.status AS status").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("orders.user_id = ? AND orders.status <> ?", userID, models.StatusCancelled).
		Order("orders.created_at DESC").Order("order_items.id ASC").
		Scan(&out).Error
	return out, err
}
