package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

// Searcher finds product ids for a free text query.
type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo         *repo.GormRepo
	Search       Searcher
	ImageBaseURL string
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*transport.ProductResponse, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	resp := transport.NewProductResponse(*p, s.ImageBaseURL)
	return &resp, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []transport.ProductResponse, error) {
	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	out := make([]transport.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, transport.NewProductResponse(p, s.ImageBaseURL))
	}
	return total, out, nil
}

// SearchProducts asks the search cluster when one is configured and falls back to the database.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []transport.ProductResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: q required", ErrValidation)
	}

	var (
		total int64
		ids   []uint
		err   error
	)
	if s.Search != nil {
		total, ids, err = s.Search.Search(ctx, q, offset, limit)
		if err != nil {
			logging.FromContext(ctx).Warn("search_cluster_error", "error", err)
		}
	}
	if s.Search == nil || err != nil {
		total, ids, err = s.Repo.SearchProducts(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, err
		}
	}

	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	out := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, transport.NewProductResponse(p, s.ImageBaseURL))
	}
	return total, out, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// AddReview stores a buyer's comment and 1 to 5 rating on an existing product.
func (s *CatalogService) AddReview(ctx context.Context, userID, productID uint, comment string, rating int) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	switch {
	case comment == "":
		return nil, fmt.Errorf("%w: comment required", ErrValidation)
	case rating < 1 || rating > 5:
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: Product not found.", ErrNotFound)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Comment:   comment,
		Rating:    uint8(rating),
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
