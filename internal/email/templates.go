package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type welcomeEmailData struct {
	baseEmailData
	Name string
}

type bookingEmailData struct {
	baseEmailData
	BookingDetails
	MoveIn string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "not specified"
	}
	return t.Format("2 January 2006")
}

func newBookingData(title string, b BookingDetails, ctaLabel string) bookingEmailData {
	return bookingEmailData{
		baseEmailData: baseEmailData{
			Title:    title,
			Heading:  title,
			CTALabel: ctaLabel,
			CTAURL:   b.ManageURL,
		},
		BookingDetails: b,
		MoveIn:         formatDate(b.MoveInDate),
	}
}
