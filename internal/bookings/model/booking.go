// Package model defines booking requests and their lifecycle.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// DateLayout is the wire format of move-in dates.
const DateLayout = "2006-01-02"

// Booking is a guest's request to stay at a listing.
// ListingName and OwnerID are read from the listing at query time.
type Booking struct {
	ID          uuid.UUID  `json:"id"`
	ListingID   uuid.UUID  `json:"hostel_id"`
	ListingName string     `json:"hostel_name"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	GuestID     uuid.UUID  `json:"user_id"`
	Status      Status     `json:"status"`
	MoveInDate  time.Time  `json:"move_in_date"`
	RoomType    string     `json:"room_type"`
	Message     string     `json:"message"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CanTransition reports whether the lifecycle allows from -> to.
// Owners decide pending requests; guests may cancel anything not yet decided against them.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusAccepted, StatusRejected:
		return from == StatusPending
	case StatusCancelled:
		return from == StatusPending || from == StatusAccepted
	default:
		return false
	}
}

// CancelableFrom lists the states a guest may cancel from.
func CancelableFrom() []Status {
	return []Status{StatusPending, StatusAccepted}
}

// IsOwnerDecision reports whether status is one an owner may set.
func IsOwnerDecision(status Status) bool {
	return status == StatusAccepted || status == StatusRejected
}
