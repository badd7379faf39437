package transport

import (
	"stayfinder_backend/internal/search/domain"
)

// TextSearchRequest is the body of POST /api/hostels/search.
type TextSearchRequest struct {
	Query        string   `json:"query" validate:"max=200"`
	PropertyType string   `json:"property_type" validate:"max=50"`
	MinPrice     *int     `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice     *int     `json:"max_price" validate:"omitempty,gte=0"`
	Amenities    []string `json:"amenities" validate:"omitempty,max=20,dive,required,max=50"`
}

// CollegeSearchRequest is the body of POST /api/hostels/search/college.
type CollegeSearchRequest struct {
	CollegeName  string   `json:"college_name" validate:"max=200"`
	MaxDistance  *float64 `json:"max_distance" validate:"omitempty,gt=0"`
	PropertyType string   `json:"property_type" validate:"max=50"`
}

// TextSearchResponse is the success envelope of the text endpoint.
type TextSearchResponse struct {
	Success      bool                   `json:"success"`
	Data         []domain.RankedListing `json:"data"`
	Count        int                    `json:"count"`
	Query        string                 `json:"query"`
	PropertyType string                 `json:"property_type"`
}

// CollegeSearchResponse is the success envelope of the college endpoint.
type CollegeSearchResponse struct {
	Success     bool                   `json:"success"`
	Data        []domain.RankedListing `json:"data"`
	Count       int                    `json:"count"`
	College     string                 `json:"college"`
	MaxDistance float64                `json:"max_distance"`
	Query       string                 `json:"query"`
}
