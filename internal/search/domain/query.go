// Package domain holds the search request and result types.
package domain

import (
	"stayfinder_backend/internal/listings/model"
)

// Kind distinguishes the two search paths.
type Kind string

const (
	KindText    Kind = "text"
	KindCollege Kind = "college"
)

// PriceRange bounds listing price, both ends inclusive.
type PriceRange struct {
	Min int
	Max int
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price int) bool {
	return price >= r.Min && price <= r.Max
}

// SearchQuery is the validated, typed form of a search request.
// A non-empty CollegeName selects the college path; text, price and amenity
// filters only apply to the text path.
type SearchQuery struct {
	RawText      string
	PropertyType string
	CollegeName  string
	MaxDistance  float64
	Price        PriceRange
	Amenities    []string
}

// Kind reports which path the query takes.
func (q SearchQuery) Kind() Kind {
	if q.CollegeName != "" {
		return KindCollege
	}
	return KindText
}

// Reference is the resolved place a college search measured from.
type Reference struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RankedListing is a listing with its distance from the reference, when the
// search had one.
type RankedListing struct {
	model.Listing
	DistanceFromCollege *float64 `json:"distance_from_college,omitempty"`
}

// Result is the outcome of a search.
type Result struct {
	Kind      Kind
	Listings  []RankedListing
	Reference *Reference
}
