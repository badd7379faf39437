package model

import (
	"github.com/jackc/pgx/v5"
)

// SelectColumns is the column list matching Scan.
const SelectColumns = `id, created_by, name, city, location, description, address, property_type,
	price, original_price, latitude, longitude, amenities, appliances, room_types,
	neighborhood_highlights, image, photos, contact_phone, contact_email, created_at, updated_at`

// Scan reads one listing row selected with SelectColumns.
func Scan(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.CreatedBy, &l.Name, &l.City, &l.Location, &l.Description, &l.Address, &l.PropertyType,
		&l.Price, &l.OriginalPrice, &l.Latitude, &l.Longitude, &l.Amenities, &l.Appliances, &l.RoomTypes,
		&l.NeighborhoodHighlights, &l.Image, &l.Photos, &l.ContactPhone, &l.ContactEmail, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return Listing{}, err
	}
	l.normalizeSlices()
	return l, nil
}

// CollectRows scans every row and closes rows.
func CollectRows(rows pgx.Rows) ([]Listing, error) {
	defer rows.Close()

	items := make([]Listing, 0)
	for rows.Next() {
		l, err := Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (l *Listing) normalizeSlices() {
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	if l.Appliances == nil {
		l.Appliances = []string{}
	}
	if l.RoomTypes == nil {
		l.RoomTypes = []string{}
	}
	if l.NeighborhoodHighlights == nil {
		l.NeighborhoodHighlights = []string{}
	}
	if l.Photos == nil {
		l.Photos = []string{}
	}
}
