package email

import (
	"context"
	"time"

	"stayfinder_backend/platform/config"
)

// Sender delivers transactional mail.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendBookingRequestEmail(ctx context.Context, toEmail string, b BookingDetails) error
	SendBookingStatusEmail(ctx context.Context, toEmail string, b BookingDetails) error
	SendBookingReminderEmail(ctx context.Context, toEmail string, b BookingDetails) error
}

// BookingDetails is what booking mails render.
type BookingDetails struct {
	RecipientName string
	GuestName     string
	ListingName   string
	MoveInDate    time.Time
	RoomType      string
	Message       string
	Status        string
	ManageURL     string
}

type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string) error { return nil }

func (NoopSender) SendBookingRequestEmail(context.Context, string, BookingDetails) error {
	return nil
}

func (NoopSender) SendBookingStatusEmail(context.Context, string, BookingDetails) error {
	return nil
}

func (NoopSender) SendBookingReminderEmail(context.Context, string, BookingDetails) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured and a NoopSender otherwise.
func NewSender(cfg config.SMTPConfig, appBaseURL string) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
		appBaseURL,
	)
}
