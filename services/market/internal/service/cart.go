package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/events"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type CartService struct {
	Repo         *repo.GormRepo
	Events       events.Publisher
	ImageBaseURL string
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartResponse, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &transport.CartResponse{Items: make([]transport.CartLine, 0, len(items)), Total: transport.NewMoney(decimal.Zero)}
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		images := make([]string, 0, len(it.Product.Images))
		for _, img := range it.Product.Images {
			images = append(images, transport.ImageURL(s.ImageBaseURL, img.ImagePath))
		}
		price := transport.NewMoney(it.Product.Price)
		subtotal := transport.NewMoney(price.Mul(decimal.NewFromInt(int64(it.Quantity))))

		resp.Items = append(resp.Items, transport.CartLine{
			ID:          it.ProductID,
			Name:        it.Product.Name,
			Description: it.Product.Description,
			Price:       price,
			Quantity:    it.Quantity,
			Subtotal:    subtotal,
			Images:      images,
			AddedAt:     it.CreatedAt,
		})
		resp.Total = resp.Total.Add(subtotal)
	}
	return resp, nil
}

// AddToCart reports whether a new line was created rather than an existing one incremented.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (bool, error) {
	if productID == 0 {
		return false, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	created, err := s.Repo.AddToCart(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return false, err
	}

	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
	})
	return created, nil
}

func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	item, err := s.Repo.UpdateCartItem(ctx, userID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart item for product %d", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	err := s.Repo.RemoveFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item for product %d", ErrNotFound, productID)
	}
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}
