// Package notification provides event handlers for sending notifications
// (emails and realtime pushes) in response to domain events.
// Domain modules publish events and never talk to mail or sockets directly.
package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayfinder_backend/internal/auth"
	"stayfinder_backend/internal/email"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/internal/realtime"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
)

// Pusher delivers realtime frames. *realtime.Hub implements it.
type Pusher interface {
	Broadcast(eventType string, data interface{})
	SendToUser(userID, eventType string, data interface{})
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender  email.Sender
	users   auth.UserProvider
	pusher  Pusher
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new notification module. pusher may be nil.
func New(sender email.Sender, users auth.UserProvider, pusher Pusher, cfg config.AppConfig, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{
		sender:  sender,
		users:   users,
		pusher:  pusher,
		baseURL: strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:     log,
		now:     time.Now,
	}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Auth domain events
	bus.Subscribe(events.UserRegistered{}.EventName(), m)

	// Listing domain events
	bus.Subscribe(events.ListingCreated{}.EventName(), m)
	bus.Subscribe(events.ListingUpdated{}.EventName(), m)
	bus.Subscribe(events.ListingDeleted{}.EventName(), m)

	// Booking domain events
	bus.Subscribe(events.BookingRequested{}.EventName(), m)
	bus.Subscribe(events.BookingStatusChanged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserRegistered:
		return m.handleUserRegistered(ctx, e)
	case events.ListingCreated:
		m.pushHostelUpdate(e.ListingID, "created", map[string]string{"name": e.Name, "city": e.City})
		return nil
	case events.ListingUpdated:
		m.pushHostelUpdate(e.ListingID, "updated", map[string]interface{}{"name": e.Name, "fields": e.Fields})
		return nil
	case events.ListingDeleted:
		m.pushHostelUpdate(e.ListingID, "deleted", nil)
		return nil
	case events.BookingRequested:
		return m.handleBookingRequested(ctx, e)
	case events.BookingStatusChanged:
		return m.handleBookingStatusChanged(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleUserRegistered(ctx context.Context, e events.UserRegistered) error {
	m.pushToUser(e.UserID, realtime.EventNotification, realtime.NotificationData{
		Type:      "success",
		Title:     "Welcome to Stayfinder!",
		Message:   "Your account has been created successfully.",
		Timestamp: m.stamp(),
	})

	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.Name); err != nil {
		m.log.Error("failed to send welcome email", "userId", e.UserID, "error", err)
		return err
	}
	m.log.Info("welcome email sent", "userId", e.UserID)
	return nil
}

func (m *Module) handleBookingRequested(ctx context.Context, e events.BookingRequested) error {
	m.pushToUser(e.OwnerID, realtime.EventBookingUpdate, realtime.UpdateData{
		BookingID: e.BookingID.String(),
		HostelID:  e.ListingID.String(),
		Action:    "requested",
		Data:      map[string]string{"hostel_name": e.ListingName, "user_id": e.GuestID.String()},
		Timestamp: m.stamp(),
	})

	owner, err := m.users.GetUserByID(ctx, e.OwnerID)
	if err != nil {
		m.log.Error("booking owner lookup failed", "bookingId", e.BookingID, "error", err)
		return err
	}
	guestName := "A guest"
	if guest, err := m.users.GetUserByID(ctx, e.GuestID); err == nil {
		guestName = guest.Name
	}

	err = m.sender.SendBookingRequestEmail(ctx, owner.Email, email.BookingDetails{
		RecipientName: owner.Name,
		GuestName:     guestName,
		ListingName:   e.ListingName,
		MoveInDate:    e.MoveInDate,
		Status:        "pending",
		ManageURL:     m.baseURL + "/enquiries",
	})
	if err != nil {
		m.log.Error("failed to send booking request email", "bookingId", e.BookingID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleBookingStatusChanged(ctx context.Context, e events.BookingStatusChanged) error {
	update := realtime.UpdateData{
		BookingID: e.BookingID.String(),
		HostelID:  e.ListingID.String(),
		Action:    e.NewStatus,
		Data:      map[string]string{"hostel_name": e.ListingName, "previous_status": e.OldStatus},
		Timestamp: m.stamp(),
	}
	m.pushToUser(e.GuestID, realtime.EventBookingUpdate, update)
	m.pushToUser(e.OwnerID, realtime.EventBookingUpdate, update)

	// Guests hear about owner decisions by mail; cancellations are the guest's own action.
	if e.NewStatus != "accepted" && e.NewStatus != "rejected" {
		return nil
	}

	guest, err := m.users.GetUserByID(ctx, e.GuestID)
	if err != nil {
		m.log.Error("booking guest lookup failed", "bookingId", e.BookingID, "error", err)
		return err
	}
	err = m.sender.SendBookingStatusEmail(ctx, guest.Email, email.BookingDetails{
		RecipientName: guest.Name,
		ListingName:   e.ListingName,
		Status:        e.NewStatus,
		ManageURL:     m.baseURL + "/bookings",
	})
	if err != nil {
		m.log.Error("failed to send booking status email", "bookingId", e.BookingID, "error", err)
		return err
	}
	return nil
}

func (m *Module) pushHostelUpdate(id uuid.UUID, action string, data interface{}) {
	if m.pusher == nil {
		return
	}
	m.pusher.Broadcast(realtime.EventHostelUpdate, realtime.UpdateData{
		HostelID:  id.String(),
		Action:    action,
		Data:      data,
		Timestamp: m.stamp(),
	})
}

func (m *Module) pushToUser(userID uuid.UUID, eventType string, data interface{}) {
	if m.pusher == nil || userID == uuid.Nil {
		return
	}
	m.pusher.SendToUser(userID.String(), eventType, data)
}

func (m *Module) stamp() string {
	return m.now().UTC().Format(time.RFC3339)
}

var _ events.Handler = (*Module)(nil)
