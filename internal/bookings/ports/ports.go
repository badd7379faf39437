// Package ports defines the interfaces the bookings domain needs from other
// domains. Implementations are wired in cmd/api.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayfinder_backend/internal/auth"
	"stayfinder_backend/internal/listings/model"
)

// ListingReader looks up the listing a booking refers to.
type ListingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Listing, error)
}

// UserDirectory resolves guests and owners for mail.
type UserDirectory = auth.UserProvider

// ReminderScheduler enqueues the delayed owner reminder for a booking.
type ReminderScheduler interface {
	ScheduleBookingReminder(ctx context.Context, bookingID uuid.UUID, runAt time.Time) error
}
