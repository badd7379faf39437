package email

import (
	"strings"
	"testing"
	"time"
)

func TestRenderBookingRequest(t *testing.T) {
	data := newBookingData("New booking request", BookingDetails{
		RecipientName: "Ravi",
		GuestName:     "Asha <script>",
		ListingName:   "Sunrise PG",
		MoveInDate:    time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		RoomType:      "Double",
		ManageURL:     "https://stayfinder.test/enquiries",
	}, "Review request")

	html, err := renderEmailTemplate("booking_request.html", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Sunrise PG", "1 July 2026", "Room type: Double", "https://stayfinder.test/enquiries", "Asha &lt;script&gt;"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in rendered mail", want)
		}
	}
}

func TestRenderEveryTemplate(t *testing.T) {
	for _, name := range []string{"booking_status.html", "booking_reminder.html"} {
		if _, err := renderEmailTemplate(name, newBookingData("x", BookingDetails{Status: "accepted"}, "")); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := renderEmailTemplate("welcome.html", welcomeEmailData{Name: "Asha"}); err != nil {
		t.Fatalf("welcome: %v", err)
	}
}

func TestFormatDateZero(t *testing.T) {
	if got := formatDate(time.Time{}); got != "not specified" {
		t.Fatalf("unexpected %q", got)
	}
}
