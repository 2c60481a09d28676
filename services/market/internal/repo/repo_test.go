package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/testutil"
)

const (
	buyer   uint = 1
	sellerA uint = 10
	sellerB uint = 20
)

func newRepo(t *testing.T) (*repo.GormRepo, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return &repo.GormRepo{DB: db}, db
}

func TestAddToCart_CreatesThenIncrements(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	p := testutil.Product(t, db, sellerA, nil, "Copper", "3.00")

	created, err := r.AddToCart(ctx, &models.CartItem{UserID: buyer, ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, created)

	item := &models.CartItem{UserID: buyer, ProductID: p.ID, Quantity: 3}
	created, err = r.AddToCart(ctx, item)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 5, item.Quantity)

	lines, err := r.GetCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Copper", lines[0].Product.Name)
}

func TestCartMutations_NotFound(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.UpdateCartItem(ctx, buyer, 99, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.RemoveFromCart(ctx, buyer, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddToWishlist_Twice(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	p := testutil.Product(t, db, sellerA, nil, "Brass", "1.00")

	created, err := r.AddToWishlist(ctx, &models.WishlistItem{UserID: buyer, ProductID: p.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.AddToWishlist(ctx, &models.WishlistItem{UserID: buyer, ProductID: p.ID})
	require.NoError(t, err)
	assert.False(t, created)

	items, err := r.GetWishlist(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListSellerOrders_OnlySellerItems(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	pa := testutil.Product(t, db, sellerA, nil, "A", "2.00")
	pb := testutil.Product(t, db, sellerB, nil, "B", "3.00")
	testutil.Order(t, db, buyer, models.StatusPending, pa, pb)
	testutil.Order(t, db, buyer, models.StatusPending, pb)

	orders, err := r.ListSellerOrders(ctx, sellerA)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, pa.ID, orders[0].Items[0].ProductID)

	orders, err = r.ListSellerOrders(ctx, sellerB)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestPurchaseHistory_SkipsCancelled(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Metal")
	kept := testutil.Product(t, db, sellerA, cat, "Kept", "1.00")
	dropped := testutil.Product(t, db, sellerA, cat, "Dropped", "1.00")
	testutil.Order(t, db, buyer, models.StatusDelivered, kept)
	testutil.Order(t, db, buyer, models.StatusCancelled, dropped)

	history, err := r.PurchaseHistory(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, kept.ID, history[0].ProductID)
	assert.Equal(t, sellerA, history[0].SellerID)
	require.NotNil(t, history[0].CategoryID)
	assert.Equal(t, cat.ID, *history[0].CategoryID)
}

func TestPopular_RanksByUnitsSold(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	low := testutil.Product(t, db, sellerA, nil, "Low", "1.00")
	high := testutil.Product(t, db, sellerA, nil, "High", "1.00")
	unsold := testutil.Product(t, db, sellerA, nil, "Unsold", "1.00")
	testutil.Order(t, db, buyer, models.StatusPending, low, high)
	testutil.Order(t, db, buyer, models.StatusCancelled, high)

	ids, err := r.Popular(ctx, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{high.ID, low.ID, unsold.ID}, ids)

	ids, err = r.Popular(ctx, []uint{high.ID}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{low.ID, unsold.ID}, ids)
}

func TestRandomInCategories_Excludes(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Wood")
	a := testutil.Product(t, db, sellerA, cat, "A", "1.00")
	b := testutil.Product(t, db, sellerA, cat, "B", "1.00")
	testutil.Product(t, db, sellerA, nil, "Loose", "1.00")

	ids, err := r.RandomInCategories(ctx, []uint{cat.ID}, []uint{a.ID}, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)

	ids, err = r.RandomInCategories(ctx, []uint{cat.ID}, nil, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)
}

func TestProductsByIDs_KeepsOrder(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	a := testutil.Product(t, db, sellerA, nil, "A", "1.00")
	b := testutil.Product(t, db, sellerA, nil, "B", "1.00")
	testutil.Image(t, db, b.ID, "b.jpg")

	products, err := r.ProductsByIDs(ctx, []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, b.ID, products[0].ID)
	assert.Equal(t, a.ID, products[1].ID)
	require.Len(t, products[0].Images, 1)
	assert.Equal(t, "b.jpg", products[0].Images[0].ImagePath)
}

func TestSearchProducts_Fallback(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	testutil.Product(t, db, sellerA, nil, "Copper pipe", "1.00")
	testutil.Product(t, db, sellerA, nil, "Oak plank", "1.00")

	total, ids, err := r.SearchProducts(ctx, "COPPER", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, ids, 1)
}

func TestCancelPendingOrder_OnlyWhilePending(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	p := testutil.Product(t, db, sellerA, nil, "P", "1.00")
	pending := testutil.Order(t, db, buyer, models.StatusPending, p)
	shipped := testutil.Order(t, db, buyer, models.StatusShipped, p)

	n, err := r.CancelPendingOrder(ctx, buyer, shipped.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.CancelPendingOrder(ctx, 99, pending.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.CancelPendingOrder(ctx, buyer, pending.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.CancelOrderItems(ctx, shipped.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := r.GetOrder(ctx, shipped.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, stored.Status)
	assert.Equal(t, models.StatusShipped, stored.Items[0].Status)
}

func TestRandomPicks_OrderByRandom(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	c := testutil.Category(t, db, "Metal")
	testutil.Product(t, db, sellerA, c, "P", "1.00")

	var queries []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	}))

	_, err := r.RandomInCategories(ctx, []uint{c.ID}, nil, 2)
	require.NoError(t, err)
	_, err = r.RandomBySellers(ctx, []uint{sellerA}, nil, 2)
	require.NoError(t, err)

	require.Len(t, queries, 2)
	for _, q := range queries {
		assert.Contains(t, q, "ORDER BY RANDOM()")
	}
}
