// Package model defines the listing record shared by the listings and search
// bounded contexts.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing is a rentable property (hostel, PG, apartment).
type Listing struct {
	ID                     uuid.UUID  `json:"id"`
	CreatedBy              *uuid.UUID `json:"created_by,omitempty"`
	Name                   string     `json:"name"`
	City                   string     `json:"city"`
	Location               string     `json:"location"`
	Description            string     `json:"desc"`
	Address                string     `json:"address"`
	PropertyType           string     `json:"property_type"`
	Price                  int        `json:"price"`
	OriginalPrice          *int       `json:"original_price,omitempty"`
	Latitude               *float64   `json:"latitude,omitempty"`
	Longitude              *float64   `json:"longitude,omitempty"`
	Amenities              []string   `json:"amenities"`
	Appliances             []string   `json:"appliances"`
	RoomTypes              []string   `json:"room_types"`
	NeighborhoodHighlights []string   `json:"neighborhood_highlights"`
	Image                  string     `json:"image"`
	Photos                 []string   `json:"photos"`
	ContactPhone           string     `json:"contact_phone"`
	ContactEmail           string     `json:"contact_email"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// OwnedBy reports whether userID created the listing.
func (l Listing) OwnedBy(userID uuid.UUID) bool {
	return l.CreatedBy != nil && *l.CreatedBy == userID
}

// HasAllAmenities reports whether every required amenity is present.
// Comparison is exact, matching the store's array containment.
func (l Listing) HasAllAmenities(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(l.Amenities))
	for _, a := range l.Amenities {
		have[a] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[r]; !ok {
			return false
		}
	}
	return true
}

// MatchesPropertyType applies the case-insensitive "starts with" rule:
// "hostel" matches "Hostel" and "HOSTEL WING" but not "PG Hostel".
// An empty filter matches everything.
func MatchesPropertyType(filter, propertyType string) bool {
	prefix := strings.ToLower(strings.TrimSpace(filter))
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(propertyType), prefix)
}
