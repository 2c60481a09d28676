// Package testutil builds throwaway SQLite databases with the market schema.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/scrap_market/pkg/db"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := pkgdb.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, (&repo.GormRepo{DB: db}).Migrate(context.Background()))
	return db
}

func Category(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Product creates a product owned by seller. category may be nil.
func Product(t *testing.T, db *gorm.DB, seller uint, category *models.Category, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		UserID:      seller,
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Image(t *testing.T, db *gorm.DB, productID uint, path string) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProductImage{ProductID: productID, ImagePath: path}).Error)
}

func CartLine(t *testing.T, db *gorm.DB, userID, productID, qty uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}).Error)
}

func Wish(t *testing.T, db *gorm.DB, userID, productID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.WishlistItem{UserID: userID, ProductID: productID}).Error)
}

// Order writes an order for buyer with one item per product at the product's current price.
func Order(t *testing.T, db *gorm.DB, buyer uint, status models.OrderStatus, products ...*models.Product) *models.Order {
	t.Helper()

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	o := &models.Order{
		UserID:          buyer,
		TotalAmount:     total,
		Status:          status,
		ShippingAddress: "1 Test Street",
		ContactPhone:    "555-0100",
		PaymentMethod:   models.PaymentCashOnDelivery,
	}
	require.NoError(t, db.Omit("Items").Create(o).Error)

	for _, p := range products {
		it := models.OrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: p.Price, Status: status}
		require.NoError(t, db.Create(&it).Error)
		o.Items = append(o.Items, it)
	}
	return o
}
