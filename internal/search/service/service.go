package service

import (
	"context"
	"time"

	"stayfinder_backend/internal/events"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/search/domain"
	"stayfinder_backend/internal/search/geo"
	"stayfinder_backend/internal/search/normalizer"
	"stayfinder_backend/internal/search/repository"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/logger"
)

const msgSearchFailed = "search failed"

// Service is the single entry point for listing searches.
type Service struct {
	repo   repository.Repository
	ranker *geo.Ranker
	bus    events.Bus
	log    *logger.Logger
}

// New creates a search service. places resolves college names for the geo path.
func New(repo repository.Repository, places geo.Resolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		ranker: geo.NewRanker(places, repo),
		bus:    bus,
		log:    log,
	}
}

// Search dispatches q to the geo path when it names a college and to the text
// path otherwise. The two are never combined.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (domain.Result, error) {
	if q.Kind() == domain.KindCollege {
		return s.run(ctx, q, s.byCollege)
	}
	return s.run(ctx, q, s.byText)
}

// SearchCollege always takes the geo path, so a blank college name is a
// validation error rather than a text search.
func (s *Service) SearchCollege(ctx context.Context, q domain.SearchQuery) (domain.Result, error) {
	return s.run(ctx, q, s.byCollege)
}

func (s *Service) run(ctx context.Context, q domain.SearchQuery, path func(context.Context, domain.SearchQuery) (domain.Result, error)) (domain.Result, error) {
	start := time.Now()

	result, err := path(ctx, q)
	if err != nil {
		return domain.Result{}, err
	}

	s.log.WithContext(ctx).SearchExecuted(string(result.Kind), len(result.Listings), time.Since(start))
	if s.bus != nil {
		s.bus.Publish(ctx, performedEvent(q, result))
	}
	return result, nil
}

func (s *Service) byText(ctx context.Context, q domain.SearchQuery) (domain.Result, error) {
	if q.Price.Min > q.Price.Max {
		return domain.Result{}, apperr.Validation("min_price must not exceed max_price")
	}

	listings, err := s.repo.FindByText(ctx, repository.TextFilter{
		Condition:    normalizer.Normalize(q.RawText),
		PropertyType: q.PropertyType,
		Price:        q.Price,
		Amenities:    q.Amenities,
	})
	if err != nil {
		return domain.Result{}, storeFailure("search.byText", err)
	}

	return domain.Result{Kind: domain.KindText, Listings: unranked(listings)}, nil
}

func (s *Service) byCollege(ctx context.Context, q domain.SearchQuery) (domain.Result, error) {
	ranking, err := s.ranker.Rank(ctx, q.CollegeName, q.MaxDistance, q.PropertyType)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return domain.Result{}, err
		}
		return domain.Result{}, storeFailure("search.byCollege", err)
	}

	ref := ranking.Reference
	return domain.Result{Kind: domain.KindCollege, Listings: ranking.Listings, Reference: &ref}, nil
}

func storeFailure(op string, err error) error {
	return apperr.Unavailable(msgSearchFailed, err).WithOp(op)
}

func unranked(listings []model.Listing) []domain.RankedListing {
	out := make([]domain.RankedListing, len(listings))
	for i, l := range listings {
		out[i] = domain.RankedListing{Listing: l}
	}
	return out
}

func performedEvent(q domain.SearchQuery, result domain.Result) events.SearchPerformed {
	evt := events.SearchPerformed{
		BaseEvent:    events.NewBaseEvent(),
		Kind:         string(result.Kind),
		Query:        q.RawText,
		PropertyType: q.PropertyType,
		Results:      len(result.Listings),
	}
	if result.Kind == domain.KindCollege {
		evt.Query = q.CollegeName
		evt.College = result.Reference.Name
		evt.MaxDistance = q.MaxDistance
	}
	return evt
}
