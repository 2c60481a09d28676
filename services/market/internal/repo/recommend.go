package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

// Signal is one product the user interacted with, newest first.
type Signal struct {
	ProductID  uint
	CategoryID *uint
	SellerID   uint
}

var random = clause.OrderBy{Expression: clause.Expr{SQL: "RANDOM()"}}

// PurchaseHistory lists products from the user's orders that were not cancelled.
func (r *GormRepo) PurchaseHistory(ctx context.Context, userID uint) ([]Signal, error) {
	var out []Signal
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, products.category_id AS category_id, products.user_id AS seller_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.user_id = ? AND orders.status <> ?", userID, models.StatusCancelled).
		Order("orders.created_at DESC").Order("order_items.id DESC").
		Scan(&out).Error
	return out, err
}

func (r *GormRepo) WishlistSignals(ctx context.Context, userID uint) ([]Signal, error) {
	var out []Signal
	err := r.DB.WithContext(ctx).
		Table("wishlist_items").
		Select("wishlist_items.product_id AS product_id, products.category_id AS category_id, products.user_id AS seller_id").
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").Order("wishlist_items.id DESC").
		Scan(&out).Error
	return out, err
}

func (r *GormRepo) RandomInCategories(ctx context.Context, categoryIDs, exclude []uint, limit int) ([]uint, error) {
	if len(categoryIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id IN ?", categoryIDs)
	q = notIn(q, "id", exclude)

	var ids []uint
	err := q.Clauses(random).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

func (r *GormRepo) RandomBySellers(ctx context.Context, sellerIDs, exclude []uint, limit int) ([]uint, error) {
	if len(sellerIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("user_id IN ?", sellerIDs)
	q = notIn(q, "id", exclude)

	var ids []uint
	err := q.Clauses(random).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

// Popular ranks products by units sold over every order item, newest product first on ties.
func (r *GormRepo) Popular(ctx context.Context, exclude []uint, limit int) ([]uint, error) {
	if limit <= 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).Model(&models.Product{}).
		Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
		Group("products.id")
	q = notIn(q, "products.id", exclude)

	var ids []uint
	err := q.
		Order("COALESCE(SUM(order_items.quantity), 0) DESC").
		Order("products.created_at DESC").
		Order("products.id DESC").
		Limit(limit).
		Pluck("products.id", &ids).Error
	return ids, err
}
