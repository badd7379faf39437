package geo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stayfinder_backend/internal/gazetteer"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/search/domain"
	"stayfinder_backend/platform/apperr"
)

const (
	msgCollegeRequired = "college name required"
	msgCollegeNotFound = "college not found"
)

// Resolver maps a free-text place name to a gazetteer entry.
type Resolver interface {
	Resolve(name string) (gazetteer.Entry, bool)
}

// CandidateSource returns listings that have coordinates, in a stable order.
type CandidateSource interface {
	FindWithCoordinates(ctx context.Context) ([]model.Listing, error)
}

// Ranker finds listings within a radius of a named college.
type Ranker struct {
	places     Resolver
	candidates CandidateSource
}

// NewRanker creates a Ranker.
func NewRanker(places Resolver, candidates CandidateSource) *Ranker {
	return &Ranker{places: places, candidates: candidates}
}

// Ranking is the ranker's output.
type Ranking struct {
	Reference domain.Reference
	Listings  []domain.RankedListing
}

// Rank resolves college, keeps candidates within maxKm (inclusive) whose
// property type starts with propertyType, and orders them by distance.
// Equal distances keep the candidate source order.
func (r *Ranker) Rank(ctx context.Context, college string, maxKm float64, propertyType string) (Ranking, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return Ranking{}, apperr.Validation(msgCollegeRequired)
	}

	place, ok := r.places.Resolve(college)
	if !ok {
		return Ranking{}, apperr.NotFound(msgCollegeNotFound).WithDetails(map[string]string{"college": college})
	}

	candidates, err := r.candidates.FindWithCoordinates(ctx)
	if err != nil {
		return Ranking{}, fmt.Errorf("load geo candidates: %w", err)
	}

	origin := Point{Lat: place.Latitude, Lon: place.Longitude}
	ranked := make([]domain.RankedListing, 0)
	for _, listing := range candidates {
		if !listing.HasCoordinates() {
			continue
		}
		distance := DistanceKm(origin, Point{Lat: *listing.Latitude, Lon: *listing.Longitude})
		if distance > maxKm {
			continue
		}
		if !model.MatchesPropertyType(propertyType, listing.PropertyType) {
			continue
		}
		rounded := RoundKm(distance)
		ranked = append(ranked, domain.RankedListing{Listing: listing, DistanceFromCollege: &rounded})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].DistanceFromCollege < *ranked[j].DistanceFromCollege
	})

	return Ranking{
		Reference: domain.Reference{Name: place.Name, Latitude: place.Latitude, Longitude: place.Longitude},
		Listings:  ranked,
	}, nil
}
