package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/events"
	"github.com/Skotchmaster/scrap_market/pkg/idempotency"
	"github.com/Skotchmaster/scrap_market/pkg/logging"
	"github.com/Skotchmaster/scrap_market/pkg/metrics"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type OrderService struct {
	Repo           *repo.GormRepo
	Events         events.Publisher
	Locker         idempotency.Locker
	IdempotencyTTL time.Duration
	ImageBaseURL   string
}

type CheckoutInput struct {
	ShippingAddress string
	ContactPhone    string
	PaymentMethod   models.PaymentMethod
	Notes           string
	IdempotencyKey  string
}

type CheckoutResult struct {
	Order *models.Order
	// Replayed is set when the idempotency key matched an earlier checkout.
	Replayed bool
}

// Checkout turns the user's cart into a pending order. The order, its items and
// the cart removal commit together or not at all.
func (s *OrderService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*CheckoutResult, error) {
	l := logging.FromContext(ctx)

	switch {
	case in.ShippingAddress == "":
		return nil, fmt.Errorf("%w: shipping_address required", ErrValidation)
	case in.ContactPhone == "":
		return nil, fmt.Errorf("%w: contact_phone required", ErrValidation)
	case !in.PaymentMethod.Valid():
		return nil, fmt.Errorf("%w: payment_method %q", ErrValidation, in.PaymentMethod)
	}

	if in.IdempotencyKey != "" {
		prev, err := s.Repo.FindOrderByIdempotencyKey(ctx, userID, in.IdempotencyKey)
		if err == nil {
			return &CheckoutResult{Order: prev, Replayed: true}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.CheckoutFailed("lookup")
			return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
		}

		if s.Locker != nil {
			key := idempotency.Key(userID, in.IdempotencyKey)
			switch err := s.Locker.Acquire(ctx, key, s.IdempotencyTTL); {
			case errors.Is(err, idempotency.ErrLocked):
				metrics.CheckoutFailed("in_progress")
				return nil, fmt.Errorf("%w: checkout with this key is in progress", ErrConflict)
			case err != nil:
				// the unique index still guards the key
				l.Warn("idempotency_lock_unavailable", "error", err)
			default:
				defer func() {
					if err := s.Locker.Release(context.WithoutCancel(ctx), key); err != nil {
						l.Warn("idempotency_unlock_error", "error", err)
					}
				}()
			}
		}
	}

	var order *models.Order
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		lines, err := tx.CartWithProducts(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Product == nil {
				return fmt.Errorf("%w: product %d no longer exists", ErrValidation, line.ProductID)
			}
			price := line.Product.Price.Round(2)
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     price,
				Status:    models.StatusPending,
			})
		}

		order = &models.Order{
			UserID:          userID,
			TotalAmount:     total.Round(2),
			Status:          models.StatusPending,
			ShippingAddress: in.ShippingAddress,
			ContactPhone:    in.ContactPhone,
			PaymentMethod:   in.PaymentMethod,
			Notes:           in.Notes,
		}
		if in.IdempotencyKey != "" {
			key := in.IdempotencyKey
			order.IdempotencyKey = &key
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}

		order.Items = items
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			metrics.CheckoutFailed("empty_cart")
			return nil, err
		case errors.Is(err, ErrValidation):
			metrics.CheckoutFailed("validation")
			return nil, err
		case in.IdempotencyKey != "" && errors.Is(err, gorm.ErrDuplicatedKey):
			prev, findErr := s.Repo.FindOrderByIdempotencyKey(ctx, userID, in.IdempotencyKey)
			if findErr == nil {
				return &CheckoutResult{Order: prev, Replayed: true}, nil
			}
		}
		metrics.CheckoutFailed("transaction")
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	metrics.OrderCreated()

	lines := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, map[string]any{
			"productID": it.ProductID,
			"quantity":  it.Quantity,
			"price":     it.Price.StringFixed(2),
		})
	}
	publish(ctx, s.Events, events.TopicOrders, order.ID, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.TotalAmount.StringFixed(2),
		"items":   lines,
	})

	return &CheckoutResult{Order: order}, nil
}

type StatusUpdateResult struct {
	Status      models.OrderStatus
	OrderStatus models.OrderStatus
	RolledUp    bool
	Updated     int
}

// UpdateStatus moves the seller's items of an order to status. With itemID set only
// that item changes. The order follows when every item the seller owns in it agrees
// and, for a bulk update, the seller owns the whole order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, sellerID uint, status models.OrderStatus, itemID *uint) (*StatusUpdateResult, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrValidation, status)
	}

	res := &StatusUpdateResult{Status: status}
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		owned, err := tx.SellerOrderItems(ctx, orderID, sellerID)
		if err != nil {
			return err
		}

		if itemID != nil {
			found := false
			for _, it := range owned {
				if it.ID == *itemID {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: order item not found or you do not have permission", ErrNotFound)
			}

			n, err := tx.UpdateItemsStatus(ctx, []uint{*itemID}, status)
			if err != nil {
				return err
			}
			res.Updated = int(n)

			pending, err := tx.CountSellerItemsNotIn(ctx, orderID, sellerID, status)
			if err != nil {
				return err
			}
			res.RolledUp = pending == 0
		} else {
			if len(owned) == 0 {
				return fmt.Errorf("%w: no order items found for this seller", ErrNotFound)
			}

			ids := make([]uint, 0, len(owned))
			for _, it := range owned {
				ids = append(ids, it.ID)
			}
			n, err := tx.UpdateItemsStatus(ctx, ids, status)
			if err != nil {
				return err
			}
			res.Updated = int(n)

			total, err := tx.CountOrderItems(ctx, orderID)
			if err != nil {
				return err
			}
			res.RolledUp = int64(len(owned)) == total
		}

		if res.RolledUp {
			if err := tx.UpdateOrderStatus(ctx, orderID, status); err != nil {
				return err
			}
		}

		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		res.OrderStatus = order.Status
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStatusUpdateFailed, err)
	}

	metrics.StatusUpdated(string(status), res.RolledUp)

	event := map[string]any{
		"type":        "order_status_updated",
		"orderID":     orderID,
		"sellerID":    sellerID,
		"status":      status,
		"orderStatus": res.OrderStatus,
	}
	if itemID != nil {
		event["itemID"] = *itemID
	}
	publish(ctx, s.Events, events.TopicOrders, orderID, event)

	return res, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, transport.NewOrderView(o, s.ImageBaseURL))
	}
	return out, nil
}

func (s *OrderService) GetOrderDetails(ctx context.Context, userID, orderID uint) (*transport.OrderView, error) {
	order, err := s.Repo.GetUserOrder(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	v := transport.NewOrderView(*order, s.ImageBaseURL)
	return &v, nil
}

func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.ListSellerOrders(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, transport.NewSellerOrderView(o, s.ImageBaseURL))
	}
	return out, nil
}

// PurchaseHistory lists what the user bought outside cancelled orders.
func (s *OrderService) PurchaseHistory(ctx context.Context, userID uint) ([]transport.PurchaseView, error) {
	rows, err := s.Repo.Purchases(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.PurchaseView, 0, len(rows))
	for _, p := range rows {
		out = append(out, transport.PurchaseView{
			ProductID:    p.ProductID,
			Name:         p.Name,
			Category:     p.Category,
			SellerID:     p.SellerID,
			Quantity:     p.Quantity,
			Price:        transport.NewMoney(p.Price),
			PurchaseDate: p.PurchaseDate,
			Status:       p.Status,
		})
	}
	return out, nil
}

// CancelOrder is allowed for the buyer while the order is still pending. The
// pending check and the write are one conditional update, so a seller moving the
// order forward in between wins.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.CancelPendingOrder(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if n == 0 {
			order, err := tx.GetUserOrder(ctx, userID, orderID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: order is %s", ErrNotCancellable, order.Status)
		}

		_, err = tx.CancelOrderItems(ctx, orderID)
		return err
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicOrders, orderID, map[string]any{
		"type":    "order_cancelled",
		"orderID": orderID,
		"userID":  userID,
	})
	return nil
}
