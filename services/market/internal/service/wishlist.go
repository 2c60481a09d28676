package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

type WishlistService struct {
	Repo         *repo.GormRepo
	ImageBaseURL string
}

// Add reports false when the product was already wishlisted.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (bool, error) {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return s.Repo.AddToWishlist(ctx, &models.WishlistItem{UserID: userID, ProductID: productID})
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	err := s.Repo.RemoveFromWishlist(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: wishlist item for product %d", ErrNotFound, productID)
	}
	return err
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]transport.WishlistEntry, error) {
	items, err := s.Repo.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.WishlistEntry, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		out = append(out, transport.WishlistEntry{
			ID:      it.ID,
			AddedAt: it.CreatedAt,
			Product: transport.NewProductResponse(*it.Product, s.ImageBaseURL),
		})
	}
	return out, nil
}
