package repository

import (
	"context"

	"github.com/google/uuid"

	"stayfinder_backend/internal/listings/model"
)

// ListParams filters the browse endpoint. Empty strings and nil slices
// place no constraint; the price range is inclusive.
type ListParams struct {
	City         string
	PropertyType string
	MinPrice     int
	MaxPrice     int
	Amenities    []string
}

// UpdateParams carries a partial update. Nil fields are left unchanged.
// Latitude and Longitude are written together or not at all.
type UpdateParams struct {
	ID                     uuid.UUID
	Name                   *string
	City                   *string
	Location               *string
	Description            *string
	Address                *string
	PropertyType           *string
	Price                  *int
	OriginalPrice          *int
	Latitude               *float64
	Longitude              *float64
	Amenities              *[]string
	Appliances             *[]string
	RoomTypes              *[]string
	NeighborhoodHighlights *[]string
	Image                  *string
	Photos                 *[]string
	ContactPhone           *string
	ContactEmail           *string
}

// Repository is the listing store.
type Repository interface {
	Create(ctx context.Context, listing model.Listing) (model.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Listing, error)
	List(ctx context.Context, params ListParams) ([]model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Listing, error)
	Update(ctx context.Context, params UpdateParams) (model.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCoordinatesIfMissing(ctx context.Context, id uuid.UUID, lat, lon float64) (bool, error)
	AppendPhoto(ctx context.Context, id uuid.UUID, url string) (model.Listing, error)
}
