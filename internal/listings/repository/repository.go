package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/platform/apperr"
)

// MsgListingNotFound is the public message for a missing listing.
const MsgListingNotFound = "Hostel not found"

// Repo implements the listing repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new listing repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a listing and returns the stored row.
func (r *Repo) Create(ctx context.Context, l model.Listing) (model.Listing, error) {
	query := fmt.Sprintf(`
		INSERT INTO listings (
			id, created_by, name, city, location, description, address, property_type,
			price, original_price, latitude, longitude, amenities, appliances, room_types,
			neighborhood_highlights, image, photos, contact_phone, contact_email
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING %s`, model.SelectColumns)

	created, err := model.Scan(r.pool.QueryRow(ctx, query,
		l.ID, l.CreatedBy, l.Name, l.City, l.Location, l.Description, l.Address, l.PropertyType,
		l.Price, l.OriginalPrice, l.Latitude, l.Longitude, nonNil(l.Amenities), nonNil(l.Appliances), nonNil(l.RoomTypes),
		nonNil(l.NeighborhoodHighlights), l.Image, nonNil(l.Photos), l.ContactPhone, l.ContactEmail,
	))
	if err != nil {
		return model.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return created, nil
}

// GetByID retrieves a listing by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, model.SelectColumns)

	l, err := model.Scan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Listing{}, apperr.NotFound(MsgListingNotFound)
		}
		return model.Listing{}, fmt.Errorf("get listing by id: %w", err)
	}
	return l, nil
}

// List returns listings matching params, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]model.Listing, error) {
	where, args := buildListWhere(params)
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE %s ORDER BY created_at DESC, id ASC`, model.SelectColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	items, err := model.CollectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	return items, nil
}

// ListByOwner returns the listings created by ownerID.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE created_by = $1 ORDER BY created_at DESC, id ASC`, model.SelectColumns)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list listings by owner: %w", err)
	}
	items, err := model.CollectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan owner listings: %w", err)
	}
	return items, nil
}

// Update applies a partial update and bumps updated_at.
func (r *Repo) Update(ctx context.Context, p UpdateParams) (model.Listing, error) {
	query := fmt.Sprintf(`
		UPDATE listings
		SET name = COALESCE($2, name),
			city = COALESCE($3, city),
			location = COALESCE($4, location),
			description = COALESCE($5, description),
			address = COALESCE($6, address),
			property_type = COALESCE($7, property_type),
			price = COALESCE($8, price),
			original_price = COALESCE($9, original_price),
			latitude = CASE WHEN $10::double precision IS NULL THEN latitude ELSE $10 END,
			longitude = CASE WHEN $10::double precision IS NULL THEN longitude ELSE $11 END,
			amenities = COALESCE($12, amenities),
			appliances = COALESCE($13, appliances),
			room_types = COALESCE($14, room_types),
			neighborhood_highlights = COALESCE($15, neighborhood_highlights),
			image = COALESCE($16, image),
			photos = COALESCE($17, photos),
			contact_phone = COALESCE($18, contact_phone),
			contact_email = COALESCE($19, contact_email),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, model.SelectColumns)

	l, err := model.Scan(r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.City, p.Location, p.Description, p.Address, p.PropertyType,
		p.Price, p.OriginalPrice, p.Latitude, p.Longitude,
		deref(p.Amenities), deref(p.Appliances), deref(p.RoomTypes), deref(p.NeighborhoodHighlights),
		p.Image, deref(p.Photos), p.ContactPhone, p.ContactEmail,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Listing{}, apperr.NotFound(MsgListingNotFound)
		}
		return model.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return l, nil
}

// Delete removes a listing.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(MsgListingNotFound)
	}
	return nil
}

// SetCoordinatesIfMissing fills coordinates only when the listing has none.
// It reports whether a row was changed.
func (r *Repo) SetCoordinatesIfMissing(ctx context.Context, id uuid.UUID, lat, lon float64) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE listings SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1 AND latitude IS NULL AND longitude IS NULL`, id, lat, lon)
	if err != nil {
		return false, fmt.Errorf("set listing coordinates: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AppendPhoto adds url to the listing's photos and uses it as the cover
// image when none is set.
func (r *Repo) AppendPhoto(ctx context.Context, id uuid.UUID, url string) (model.Listing, error) {
	query := fmt.Sprintf(`
		UPDATE listings
		SET photos = array_append(photos, $2),
			image = CASE WHEN image = '' THEN $2 ELSE image END,
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, model.SelectColumns)

	l, err := model.Scan(r.pool.QueryRow(ctx, query, id, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Listing{}, apperr.NotFound(MsgListingNotFound)
		}
		return model.Listing{}, fmt.Errorf("append listing photo: %w", err)
	}
	return l, nil
}

func buildListWhere(params ListParams) (string, []interface{}) {
	whereClauses := []string{"price BETWEEN $1 AND $2"}
	args := []interface{}{params.MinPrice, params.MaxPrice}
	argIdx := 3

	if city := strings.TrimSpace(params.City); city != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lower(city) = lower($%d)", argIdx))
		args = append(args, city)
		argIdx++
	}
	if pt := strings.TrimSpace(params.PropertyType); pt != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lower(property_type) = lower($%d)", argIdx))
		args = append(args, pt)
		argIdx++
	}
	if len(params.Amenities) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("amenities @> $%d", argIdx))
		args = append(args, params.Amenities)
	}

	return strings.Join(whereClauses, " AND "), args
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func deref(values *[]string) []string {
	if values == nil {
		return nil
	}
	return nonNil(*values)
}
