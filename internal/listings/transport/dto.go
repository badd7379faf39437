package transport

import "stayfinder_backend/internal/listings/model"

// ListRequest holds the browse filters from the query string.
type ListRequest struct {
	City      string `form:"city" validate:"max=100"`
	Type      string `form:"type" validate:"max=50"`
	MinPrice  *int   `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice  *int   `form:"max_price" validate:"omitempty,gte=0"`
	Amenities string `form:"amenities" validate:"max=500"`
}

// CreateListingRequest is the body of POST /api/hostels.
type CreateListingRequest struct {
	Name                   string   `json:"name" validate:"required,min=2,max=200"`
	City                   string   `json:"city" validate:"required,max=100"`
	Location               string   `json:"location" validate:"required,max=200"`
	Description            string   `json:"desc" validate:"required,max=5000"`
	Address                string   `json:"address" validate:"max=500"`
	PropertyType           string   `json:"property_type" validate:"required,property_type"`
	Price                  *int     `json:"price" validate:"required,gte=0"`
	OriginalPrice          *int     `json:"original_price" validate:"omitempty,gte=0"`
	Latitude               *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude              *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	Amenities              []string `json:"amenities" validate:"omitempty,max=50,dive,required,max=50"`
	Appliances             []string `json:"appliances" validate:"omitempty,max=50,dive,required,max=50"`
	RoomTypes              []string `json:"room_types" validate:"omitempty,max=20,dive,required,max=50"`
	NeighborhoodHighlights []string `json:"neighborhood_highlights" validate:"omitempty,max=20,dive,required,max=200"`
	Image                  string   `json:"image" validate:"omitempty,url"`
	Photos                 []string `json:"photos" validate:"omitempty,max=30,dive,url"`
	ContactPhone           string   `json:"contact_phone" validate:"max=30"`
	ContactEmail           string   `json:"contact_email" validate:"omitempty,email"`
}

// UpdateListingRequest is the body of PUT /api/hostels/:id. Absent fields are
// left unchanged.
type UpdateListingRequest struct {
	Name                   *string   `json:"name" validate:"omitempty,min=2,max=200"`
	City                   *string   `json:"city" validate:"omitempty,max=100"`
	Location               *string   `json:"location" validate:"omitempty,max=200"`
	Description            *string   `json:"desc" validate:"omitempty,max=5000"`
	Address                *string   `json:"address" validate:"omitempty,max=500"`
	PropertyType           *string   `json:"property_type" validate:"omitempty,property_type"`
	Price                  *int      `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice          *int      `json:"original_price" validate:"omitempty,gte=0"`
	Latitude               *float64  `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude              *float64  `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	Amenities              *[]string `json:"amenities" validate:"omitempty,max=50,dive,required,max=50"`
	Appliances             *[]string `json:"appliances" validate:"omitempty,max=50,dive,required,max=50"`
	RoomTypes              *[]string `json:"room_types" validate:"omitempty,max=20,dive,required,max=50"`
	NeighborhoodHighlights *[]string `json:"neighborhood_highlights" validate:"omitempty,max=20,dive,required,max=200"`
	Image                  *string   `json:"image" validate:"omitempty,url"`
	Photos                 *[]string `json:"photos" validate:"omitempty,max=30,dive,url"`
	ContactPhone           *string   `json:"contact_phone" validate:"omitempty,max=30"`
	ContactEmail           *string   `json:"contact_email" validate:"omitempty,email"`
}

// PresignPhotoRequest asks for a direct-upload URL.
type PresignPhotoRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0"`
}

// ListingResponse wraps one listing in the success envelope.
type ListingResponse struct {
	Success bool          `json:"success"`
	Data    model.Listing `json:"data"`
}

// ListingListResponse wraps many listings in the success envelope.
type ListingListResponse struct {
	Success bool            `json:"success"`
	Data    []model.Listing `json:"data"`
	Count   int             `json:"count"`
}

// MessageResponse is a success envelope with only a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
