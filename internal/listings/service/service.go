package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayfinder_backend/internal/adapters/storage"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/listings/repository"
	"stayfinder_backend/internal/listings/transport"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
	"stayfinder_backend/platform/sanitize"
)

const (
	msgPermissionDenied = "Permission denied"
	msgInvalidPriceMin  = "min_price must not exceed max_price"
	geocodeTimeout      = 3 * time.Second
)

// Geocoder resolves a postal address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (float64, float64, error)
}

// Config is the subset of settings the listings service reads.
type Config interface {
	config.AppConfig
	config.SearchConfig
	GetMinioBucketListingPhotos() string
}

// Service provides business logic for listings.
type Service struct {
	repo     repository.Repository
	storage  storage.StorageService
	geocoder Geocoder
	phones   *phone.Normalizer
	bus      events.Bus
	cfg      Config
	log      *logger.Logger
}

// New creates a new listings service. storage and geocoder may be nil when
// those integrations are not configured.
func New(repo repository.Repository, store storage.StorageService, geocoder Geocoder, phones *phone.Normalizer, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  store,
		geocoder: geocoder,
		phones:   phones,
		bus:      bus,
		cfg:      cfg,
		log:      log,
	}
}

// List returns listings matching the browse filters.
func (s *Service) List(ctx context.Context, req transport.ListRequest) ([]model.Listing, error) {
	params := repository.ListParams{
		City:         req.City,
		PropertyType: req.Type,
		MinPrice:     s.cfg.GetSearchDefaultMinPrice(),
		MaxPrice:     s.cfg.GetSearchDefaultMaxPrice(),
		Amenities:    splitAmenities(req.Amenities),
	}
	if req.MinPrice != nil {
		params.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		params.MaxPrice = *req.MaxPrice
	}
	if params.MinPrice > params.MaxPrice {
		return nil, apperr.Validation(msgInvalidPriceMin)
	}

	return s.repo.List(ctx, params)
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMine returns the listings created by userID.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Listing, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Create stores a new listing owned by userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateListingRequest) (model.Listing, error) {
	owner := userID
	listing := model.Listing{
		ID:                     uuid.New(),
		CreatedBy:              &owner,
		Name:                   sanitize.Text(req.Name),
		City:                   sanitize.Text(req.City),
		Location:               sanitize.Text(req.Location),
		Description:            sanitize.Text(req.Description),
		Address:                sanitize.Text(req.Address),
		PropertyType:           canonicalPropertyType(req.PropertyType),
		Price:                  *req.Price,
		OriginalPrice:          req.OriginalPrice,
		Latitude:               req.Latitude,
		Longitude:              req.Longitude,
		Amenities:              sanitize.List(req.Amenities),
		Appliances:             sanitize.List(req.Appliances),
		RoomTypes:              sanitize.List(req.RoomTypes),
		NeighborhoodHighlights: sanitize.List(req.NeighborhoodHighlights),
		Image:                  strings.TrimSpace(req.Image),
		Photos:                 trimAll(req.Photos),
		ContactPhone:           s.phones.E164(req.ContactPhone),
		ContactEmail:           strings.ToLower(strings.TrimSpace(req.ContactEmail)),
	}
	if listing.Name == "" || listing.City == "" || listing.Location == "" {
		return model.Listing{}, apperr.Validation("name, city and location must contain text")
	}
	if listing.Image == "" && len(listing.Photos) > 0 {
		listing.Image = listing.Photos[0]
	}

	if !listing.HasCoordinates() && listing.Address != "" {
		s.fillCoordinates(ctx, &listing)
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return model.Listing{}, err
	}

	s.log.Info("listing created", "id", created.ID, "name", created.Name, "city", created.City)
	s.publish(ctx, events.ListingCreated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: created.ID,
		OwnerID:   userID,
		Name:      created.Name,
		City:      created.City,
	})
	return created, nil
}

// Update applies a partial update. Only the owner may edit a listing.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateListingRequest) (model.Listing, error) {
	if _, err := s.ownedListing(ctx, userID, id); err != nil {
		return model.Listing{}, err
	}

	params := repository.UpdateParams{
		ID:                     id,
		Name:                   sanitize.TextPtr(req.Name),
		City:                   sanitize.TextPtr(req.City),
		Location:               sanitize.TextPtr(req.Location),
		Description:            sanitize.TextPtr(req.Description),
		Address:                sanitize.TextPtr(req.Address),
		Price:                  req.Price,
		OriginalPrice:          req.OriginalPrice,
		Latitude:               req.Latitude,
		Longitude:              req.Longitude,
		Amenities:              sanitizeListPtr(req.Amenities),
		Appliances:             sanitizeListPtr(req.Appliances),
		RoomTypes:              sanitizeListPtr(req.RoomTypes),
		NeighborhoodHighlights: sanitizeListPtr(req.NeighborhoodHighlights),
		Image:                  trimPtr(req.Image),
		Photos:                 trimListPtr(req.Photos),
	}
	if req.PropertyType != nil {
		pt := canonicalPropertyType(*req.PropertyType)
		params.PropertyType = &pt
	}
	if req.ContactPhone != nil {
		p := s.phones.E164(*req.ContactPhone)
		params.ContactPhone = &p
	}
	if req.ContactEmail != nil {
		e := strings.ToLower(strings.TrimSpace(*req.ContactEmail))
		params.ContactEmail = &e
	}
	if (params.Latitude == nil) != (params.Longitude == nil) {
		return model.Listing{}, apperr.Validation("latitude and longitude must be provided together")
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return model.Listing{}, err
	}

	s.log.Info("listing updated", "id", updated.ID)
	s.publish(ctx, listingUpdated(updated, userID, changedFields(req)...))
	return updated, nil
}

// Delete removes a listing. Only the owner may delete it.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedListing(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("listing deleted", "id", id)
	s.publish(ctx, events.ListingDeleted{
		BaseEvent: events.NewBaseEvent(),
		ListingID: id,
		OwnerID:   userID,
	})
	return nil
}

func (s *Service) ownedListing(ctx context.Context, userID, id uuid.UUID) (model.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Listing{}, err
	}
	if !listing.OwnedBy(userID) {
		return model.Listing{}, apperr.Forbidden(msgPermissionDenied)
	}
	return listing, nil
}

// fillCoordinates geocodes the address. Failures are logged and ignored.
func (s *Service) fillCoordinates(ctx context.Context, listing *model.Listing) {
	if s.geocoder == nil {
		return
	}

	geoCtx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	query := listing.Address
	if !strings.Contains(strings.ToLower(query), strings.ToLower(listing.City)) {
		query = query + ", " + listing.City
	}
	lat, lon, err := s.geocoder.Geocode(geoCtx, query)
	if err != nil {
		s.log.Warn("geocoding listing address failed", "address", query, "error", err)
		return
	}
	listing.Latitude, listing.Longitude = &lat, &lon
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func listingUpdated(l model.Listing, userID uuid.UUID, fields ...string) events.ListingUpdated {
	return events.ListingUpdated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: l.ID,
		OwnerID:   userID,
		Name:      l.Name,
		Fields:    fields,
	}
}

// canonicalPropertyType maps hostel|pg|apartment|other to its display form.
func canonicalPropertyType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hostel":
		return "Hostel"
	case "pg":
		return "PG"
	case "apartment":
		return "Apartment"
	default:
		return "Other"
	}
}

func splitAmenities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return trimAll(strings.Split(raw, ","))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimListPtr(values *[]string) *[]string {
	if values == nil {
		return nil
	}
	out := trimAll(*values)
	return &out
}

func sanitizeListPtr(values *[]string) *[]string {
	if values == nil {
		return nil
	}
	out := sanitize.List(*values)
	return &out
}

func changedFields(req transport.UpdateListingRequest) []string {
	fields := make([]string, 0, 8)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(req.Name != nil, "name")
	add(req.City != nil, "city")
	add(req.Location != nil, "location")
	add(req.Description != nil, "desc")
	add(req.Address != nil, "address")
	add(req.PropertyType != nil, "property_type")
	add(req.Price != nil, "price")
	add(req.OriginalPrice != nil, "original_price")
	add(req.Latitude != nil, "coordinates")
	add(req.Amenities != nil, "amenities")
	add(req.Appliances != nil, "appliances")
	add(req.RoomTypes != nil, "room_types")
	add(req.NeighborhoodHighlights != nil, "neighborhood_highlights")
	add(req.Image != nil, "image")
	add(req.Photos != nil, "photos")
	add(req.ContactPhone != nil, "contact_phone")
	add(req.ContactEmail != nil, "contact_email")
	return fields
}
