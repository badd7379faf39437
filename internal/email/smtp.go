package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	appBaseURL string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName, appBaseURL string) *SMTPSender {
	return &SMTPSender{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		fromName:   fromName,
		fromEmail:  fromEmail,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectWelcome,
			Heading:  "Welcome aboard",
			CTALabel: "Find a place to stay",
			CTAURL:   s.appBaseURL + "/",
		},
		Name: name,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

func (s *SMTPSender) SendBookingRequestEmail(ctx context.Context, toEmail string, b BookingDetails) error {
	content, err := renderEmailTemplate("booking_request.html", newBookingData("New booking request", s.withManageURL(b), "Review request"))
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingRequestFmt, b.ListingName), content)
}

func (s *SMTPSender) SendBookingStatusEmail(ctx context.Context, toEmail string, b BookingDetails) error {
	content, err := renderEmailTemplate("booking_status.html", newBookingData("Booking "+b.Status, s.withManageURL(b), "View my bookings"))
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingStatusFmt, b.ListingName, b.Status), content)
}

func (s *SMTPSender) SendBookingReminderEmail(ctx context.Context, toEmail string, b BookingDetails) error {
	content, err := renderEmailTemplate("booking_reminder.html", newBookingData("A guest is waiting", s.withManageURL(b), "Review request"))
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingReminderFmt, b.ListingName), content)
}

func (s *SMTPSender) withManageURL(b BookingDetails) BookingDetails {
	if b.ManageURL == "" {
		b.ManageURL = s.appBaseURL + "/enquiries"
	}
	return b
}

var _ Sender = (*SMTPSender)(nil)
var _ Sender = NoopSender{}
