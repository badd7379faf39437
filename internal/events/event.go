// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"stayfinder_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new account is created.
type UserRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// =============================================================================
// Listing Domain Events
// =============================================================================

// ListingCreated is published after a listing is stored.
type ListingCreated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
}

func (e ListingCreated) EventName() string { return "listing.created" }

// ListingUpdated is published after an owner edits a listing.
type ListingUpdated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	Fields    []string  `json:"fields"`
}

func (e ListingUpdated) EventName() string { return "listing.updated" }

// ListingDeleted is published after a listing is removed.
type ListingDeleted struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	OwnerID   uuid.UUID `json:"ownerId"`
}

func (e ListingDeleted) EventName() string { return "listing.deleted" }

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingRequested is published when a guest asks to book a listing.
type BookingRequested struct {
	BaseEvent
	BookingID   uuid.UUID `json:"bookingId"`
	ListingID   uuid.UUID `json:"listingId"`
	ListingName string    `json:"listingName"`
	GuestID     uuid.UUID `json:"guestId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	MoveInDate  time.Time `json:"moveInDate"`
}

func (e BookingRequested) EventName() string { return "booking.requested" }

// BookingStatusChanged is published when an owner accepts or rejects a
// booking, or a guest cancels one.
type BookingStatusChanged struct {
	BaseEvent
	BookingID   uuid.UUID `json:"bookingId"`
	ListingID   uuid.UUID `json:"listingId"`
	ListingName string    `json:"listingName"`
	GuestID     uuid.UUID `json:"guestId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e BookingStatusChanged) EventName() string { return "booking.status_changed" }

// BookingReminderDue is published by the scheduler when a delayed owner
// reminder fires.
type BookingReminderDue struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
}

func (e BookingReminderDue) EventName() string { return "booking.reminder_due" }

// =============================================================================
// Search Domain Events
// =============================================================================

// SearchPerformed is published after every successful search.
type SearchPerformed struct {
	BaseEvent
	Kind         string  `json:"kind"`
	Query        string  `json:"query"`
	PropertyType string  `json:"propertyType,omitempty"`
	College      string  `json:"college,omitempty"`
	MaxDistance  float64 `json:"maxDistance,omitempty"`
	Results      int     `json:"results"`
}

func (e SearchPerformed) EventName() string { return "search.performed" }
