package service

import (
	"context"

	"github.com/Skotchmaster/scrap_market/pkg/logging"
	"github.com/Skotchmaster/scrap_market/pkg/metrics"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/transport"
)

const (
	MaxRecommendations = 8

	historyTierLimit  = 4
	interestTierLimit = 3
	sellerTierLimit   = 2

	ReasonHistory   = "Based on Your Order History"
	ReasonInterests = "Based on Your Interests"
	ReasonSellers   = "From Your Favorite Sellers"
	ReasonPopular   = "Popular Products"

	MessageNoSignals = "No purchase history or wishlist found. Showing popular products."
	MessageDegraded  = "Error generating recommendations. Showing popular products."
)

type RecommendService struct {
	Repo         *repo.GormRepo
	ImageBaseURL string
}

// Recommendations is a personalised list, or the popular list with Message set.
type Recommendations struct {
	Items   []transport.RecommendedProduct
	Message string
}

type pick struct {
	productID uint
	reason    string
}

// picker accumulates tier results. Products in the seen set are never picked again.
type picker struct {
	picks []pick
	seen  map[uint]struct{}
	fixed []uint
}

func newPicker(interacted []uint) *picker {
	p := &picker{seen: make(map[uint]struct{}, len(interacted))}
	for _, id := range interacted {
		if _, ok := p.seen[id]; ok {
			continue
		}
		p.seen[id] = struct{}{}
		p.fixed = append(p.fixed, id)
	}
	return p
}

func (p *picker) add(ids []uint, reason string) {
	for _, id := range ids {
		if len(p.picks) >= MaxRecommendations {
			return
		}
		if _, ok := p.seen[id]; ok {
			continue
		}
		p.seen[id] = struct{}{}
		p.picks = append(p.picks, pick{productID: id, reason: reason})
	}
}

func (p *picker) excluded() []uint {
	out := make([]uint, 0, len(p.fixed)+len(p.picks))
	out = append(out, p.fixed...)
	for _, pk := range p.picks {
		out = append(out, pk.productID)
	}
	return out
}

func (p *picker) count() int { return len(p.picks) }

func (s *RecommendService) Recommend(ctx context.Context, userID uint) (*Recommendations, error) {
	l := logging.FromContext(ctx).With("user_id", userID)

	picks, hasSignals, err := s.personalised(ctx, userID)
	switch {
	case err != nil:
		l.Error("recommendations_degraded", "error", err)
		metrics.RecommendationsServed("degraded")
		return s.popular(ctx, MessageDegraded)
	case !hasSignals:
		metrics.RecommendationsServed("fallback")
		return s.popular(ctx, MessageNoSignals)
	}

	items, err := s.hydrate(ctx, picks)
	if err != nil {
		l.Error("recommendations_degraded", "error", err)
		metrics.RecommendationsServed("degraded")
		return s.popular(ctx, MessageDegraded)
	}

	metrics.RecommendationsServed("personalised")
	return &Recommendations{Items: items}, nil
}

func (s *RecommendService) personalised(ctx context.Context, userID uint) ([]pick, bool, error) {
	history, err := s.Repo.PurchaseHistory(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	wishlist, err := s.Repo.WishlistSignals(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(history) == 0 && len(wishlist) == 0 {
		return nil, false, nil
	}

	interacted := make([]uint, 0, len(history)+len(wishlist))
	for _, sig := range history {
		interacted = append(interacted, sig.ProductID)
	}
	for _, sig := range wishlist {
		interacted = append(interacted, sig.ProductID)
	}
	p := newPicker(interacted)

	if err := s.fromCategories(ctx, p, categoriesOf(history), historyTierLimit, ReasonHistory); err != nil {
		return nil, true, err
	}
	if err := s.fromCategories(ctx, p, categoriesOf(wishlist), interestTierLimit, ReasonInterests); err != nil {
		return nil, true, err
	}

	ids, err := s.Repo.RandomBySellers(ctx, sellersOf(history), p.excluded(), sellerTierLimit)
	if err != nil {
		return nil, true, err
	}
	p.add(ids, ReasonSellers)

	if p.count() < MaxRecommendations {
		ids, err := s.Repo.Popular(ctx, p.excluded(), MaxRecommendations-p.count())
		if err != nil {
			return nil, true, err
		}
		p.add(ids, ReasonPopular)
	}

	return p.picks, true, nil
}

// fromCategories spreads a tier's quota over its categories, most recent first,
// then tops the tier up from all of them together.
func (s *RecommendService) fromCategories(ctx context.Context, p *picker, categories []uint, limit int, reason string) error {
	if len(categories) == 0 {
		return nil
	}
	start := p.count()
	perCategory := (limit + len(categories) - 1) / len(categories)

	for _, c := range categories {
		remaining := limit - (p.count() - start)
		if remaining <= 0 {
			return nil
		}
		ids, err := s.Repo.RandomInCategories(ctx, []uint{c}, p.excluded(), min(perCategory, remaining))
		if err != nil {
			return err
		}
		p.add(ids, reason)
	}

	if remaining := limit - (p.count() - start); remaining > 0 {
		ids, err := s.Repo.RandomInCategories(ctx, categories, p.excluded(), remaining)
		if err != nil {
			return err
		}
		p.add(ids, reason)
	}
	return nil
}

func (s *RecommendService) popular(ctx context.Context, message string) (*Recommendations, error) {
	ids, err := s.Repo.Popular(ctx, nil, MaxRecommendations)
	if err != nil {
		return nil, err
	}

	picks := make([]pick, 0, len(ids))
	for _, id := range ids {
		picks = append(picks, pick{productID: id, reason: ReasonPopular})
	}
	items, err := s.hydrate(ctx, picks)
	if err != nil {
		return nil, err
	}
	return &Recommendations{Items: items, Message: message}, nil
}

func (s *RecommendService) hydrate(ctx context.Context, picks []pick) ([]transport.RecommendedProduct, error) {
	ids := make([]uint, 0, len(picks))
	reasons := make(map[uint]string, len(picks))
	for _, pk := range picks {
		ids = append(ids, pk.productID)
		reasons[pk.productID] = pk.reason
	}

	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]transport.RecommendedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, transport.RecommendedProduct{
			ProductResponse: transport.NewProductResponse(p, s.ImageBaseURL),
			Reason:          reasons[p.ID],
		})
	}
	return out, nil
}

func categoriesOf(signals []repo.Signal) []uint {
	seen := make(map[uint]struct{})
	var out []uint
	for _, sig := range signals {
		if sig.CategoryID == nil {
			continue
		}
		if _, ok := seen[*sig.CategoryID]; ok {
			continue
		}
		seen[*sig.CategoryID] = struct{}{}
		out = append(out, *sig.CategoryID)
	}
	return out
}

func sellersOf(signals []repo.Signal) []uint {
	seen := make(map[uint]struct{})
	var out []uint
	for _, sig := range signals {
		if _, ok := seen[sig.SellerID]; ok {
			continue
		}
		seen[sig.SellerID] = struct{}{}
		out = append(out, sig.SellerID)
	}
	return out
}
