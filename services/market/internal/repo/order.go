package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

const orderItemBatch = 100

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&items, orderItemBatch).Error
}

func (r *GormRepo) FindOrderByIdempotencyKey(ctx context.Context, userID uint, key string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := withOrderItems(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetUserOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := withOrderItems(r.DB.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListSellerOrders returns orders holding at least one of the seller's products.
// Items of other sellers are left out of each order.
func (r *GormRepo) ListSellerOrders(ctx context.Context, sellerID uint) ([]models.Order, error) {
	sellerItems := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_id").
		Where("product_id IN (?)", r.sellerProducts(ctx, sellerID))

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("product_id IN (?)", r.sellerProducts(ctx, sellerID)).Order("id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id IN (?)", sellerItems).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) SellerOrderItems(ctx context.Context, orderID, sellerID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ? AND product_id IN (?)", orderID, r.sellerProducts(ctx, sellerID)).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountSellerItemsNotIn(ctx context.Context, orderID, sellerID uint, status models.OrderStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id IN (?) AND status <> ?", orderID, r.sellerProducts(ctx, sellerID), status).
		Count(&n).Error
	return n, err
}

func (r *GormRepo) CountOrderItems(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

func (r *GormRepo) UpdateItemsStatus(ctx context.Context, ids []uint, status models.OrderStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&models.OrderItem{}).Where("id IN ?", ids).Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelPendingOrder cancels the buyer's order only while it is still pending.
// Zero rows means the order is missing, not the buyer's, or already moved on.
func (r *GormRepo) CancelPendingOrder(ctx context.Context, userID, orderID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, models.StatusPending).
		Update("status", models.StatusCancelled)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CancelOrderItems(ctx context.Context, orderID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND status = ?", orderID, models.StatusPending).
		Update("status", models.StatusCancelled)
	return res.RowsAffected, res.Error
}
