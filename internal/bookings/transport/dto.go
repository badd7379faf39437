package transport

import "stayfinder_backend/internal/bookings/model"

type CreateBookingRequest struct {
	HostelID   string `json:"hostel_id" validate:"required,uuid"`
	MoveInDate string `json:"move_in_date" validate:"required,datetime=2006-01-02"`
	RoomType   string `json:"room_type" validate:"max=100"`
	Message    string `json:"message" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type BookingResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    model.Booking `json:"data"`
}

type BookingListResponse struct {
	Success bool            `json:"success"`
	Data    []model.Booking `json:"data"`
	Count   int             `json:"count"`
}
