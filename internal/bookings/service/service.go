package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayfinder_backend/internal/bookings/model"
	"stayfinder_backend/internal/bookings/ports"
	"stayfinder_backend/internal/bookings/repository"
	"stayfinder_backend/internal/bookings/transport"
	"stayfinder_backend/internal/email"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/sanitize"
)

const (
	msgPermissionDenied = "Permission denied"
	msgNotPending       = "Booking is no longer pending"
	msgNotCancelable    = "Booking can no longer be cancelled"
	msgOwnListing       = "You cannot book your own hostel"
)

type Service struct {
	repo      repository.Repository
	listings  ports.ListingReader
	users     ports.UserDirectory
	mailer    email.Sender
	reminders ports.ReminderScheduler
	bus       events.Bus
	cfg       config.BookingConfig
	log       *logger.Logger
	now       func() time.Time
}

// New wires the booking service. reminders may be nil when no scheduler is configured.
func New(repo repository.Repository, listings ports.ListingReader, users ports.UserDirectory, mailer email.Sender, reminders ports.ReminderScheduler, bus events.Bus, cfg config.BookingConfig, log *logger.Logger) *Service {
	if mailer == nil {
		mailer = email.NoopSender{}
	}
	return &Service{
		repo:      repo,
		listings:  listings,
		users:     users,
		mailer:    mailer,
		reminders: reminders,
		bus:       bus,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Request creates a pending booking on a listing the guest does not own.
func (s *Service) Request(ctx context.Context, guestID uuid.UUID, req transport.CreateBookingRequest) (model.Booking, error) {
	listingID, err := uuid.Parse(req.HostelID)
	if err != nil {
		return model.Booking{}, apperr.Validation("invalid hostel id")
	}
	moveIn, err := time.Parse(model.DateLayout, strings.TrimSpace(req.MoveInDate))
	if err != nil {
		return model.Booking{}, apperr.Validation("move_in_date must be YYYY-MM-DD")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if moveIn.Before(today) {
		return model.Booking{}, apperr.Validation("move_in_date must not be in the past")
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return model.Booking{}, err
	}
	if listing.OwnedBy(guestID) {
		return model.Booking{}, apperr.Validation(msgOwnListing)
	}

	now := s.now().UTC()
	booking, err := s.repo.Create(ctx, model.Booking{
		ID:          uuid.New(),
		ListingID:   listing.ID,
		ListingName: listing.Name,
		OwnerID:     listing.CreatedBy,
		GuestID:     guestID,
		Status:      model.StatusPending,
		MoveInDate:  moveIn,
		RoomType:    sanitize.Text(req.RoomType),
		Message:     sanitize.Text(req.Message),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Booking{}, err
	}

	if s.bus != nil && booking.OwnerID != nil {
		s.bus.Publish(ctx, events.BookingRequested{
			BaseEvent:   events.NewBaseEvent(),
			BookingID:   booking.ID,
			ListingID:   booking.ListingID,
			ListingName: booking.ListingName,
			GuestID:     guestID,
			OwnerID:     *booking.OwnerID,
			MoveInDate:  booking.MoveInDate,
		})
	}

	if s.reminders != nil {
		runAt := now.Add(s.cfg.GetBookingReminderDelay())
		if err := s.reminders.ScheduleBookingReminder(ctx, booking.ID, runAt); err != nil {
			s.log.Warn("booking reminder not scheduled", "bookingId", booking.ID, "error", err)
		}
	}

	return booking, nil
}

// Decide lets the listing owner accept or reject a pending booking.
func (s *Service) Decide(ctx context.Context, ownerID, bookingID uuid.UUID, status model.Status) (model.Booking, error) {
	if !model.IsOwnerDecision(status) {
		return model.Booking{}, apperr.Validation("status must be accepted or rejected")
	}

	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if current.OwnerID == nil || *current.OwnerID != ownerID {
		return model.Booking{}, apperr.Forbidden(msgPermissionDenied)
	}

	return s.transition(ctx, current, []model.Status{model.StatusPending}, status, msgNotPending)
}

// Cancel lets the guest withdraw a pending or accepted booking.
func (s *Service) Cancel(ctx context.Context, guestID, bookingID uuid.UUID) (model.Booking, error) {
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if current.GuestID != guestID {
		return model.Booking{}, apperr.Forbidden(msgPermissionDenied)
	}

	return s.transition(ctx, current, model.CancelableFrom(), model.StatusCancelled, msgNotCancelable)
}

func (s *Service) transition(ctx context.Context, current model.Booking, from []model.Status, to model.Status, conflictMsg string) (model.Booking, error) {
	if !model.CanTransition(current.Status, to) {
		return model.Booking{}, apperr.Conflict(conflictMsg)
	}

	updated, ok, err := s.repo.Transition(ctx, current.ID, from, to)
	if err != nil {
		return model.Booking{}, err
	}
	// Lost a race with another writer.
	if !ok {
		return model.Booking{}, apperr.Conflict(conflictMsg)
	}

	if s.bus != nil {
		changed := events.BookingStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			BookingID:   updated.ID,
			ListingID:   updated.ListingID,
			ListingName: updated.ListingName,
			GuestID:     updated.GuestID,
			OldStatus:   string(current.Status),
			NewStatus:   string(updated.Status),
		}
		if updated.OwnerID != nil {
			changed.OwnerID = *updated.OwnerID
		}
		s.bus.Publish(ctx, changed)
	}
	return updated, nil
}

func (s *Service) ListForGuest(ctx context.Context, guestID uuid.UUID) ([]model.Booking, error) {
	return s.repo.ListByGuest(ctx, guestID)
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Booking, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// HandleReminderDue re-notifies the owner when a booking is still pending.
// Bookings decided in the meantime are skipped.
func (s *Service) HandleReminderDue(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if booking.Status != model.StatusPending || booking.OwnerID == nil {
		return nil
	}

	owner, err := s.users.GetUserByID(ctx, *booking.OwnerID)
	if err != nil {
		return err
	}
	guestName := "A guest"
	if guest, err := s.users.GetUserByID(ctx, booking.GuestID); err == nil {
		guestName = guest.Name
	}

	s.log.Info("sending booking reminder", "bookingId", booking.ID, "ownerId", owner.ID)
	return s.mailer.SendBookingReminderEmail(ctx, owner.Email, email.BookingDetails{
		RecipientName: owner.Name,
		GuestName:     guestName,
		ListingName:   booking.ListingName,
		MoveInDate:    booking.MoveInDate,
		RoomType:      booking.RoomType,
		Message:       booking.Message,
		Status:        string(booking.Status),
	})
}

// ReminderHandler adapts HandleReminderDue to the event bus.
func (s *Service) ReminderHandler() events.Handler {
	return events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		due, ok := event.(events.BookingReminderDue)
		if !ok {
			return nil
		}
		return s.HandleReminderDue(ctx, due.BookingID)
	})
}
