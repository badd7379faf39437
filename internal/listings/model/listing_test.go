package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestMatchesPropertyTypeIsCaseInsensitivePrefix(t *testing.T) {
	cases := []struct {
		filter, value string
		want          bool
	}{
		{"hostel", "Hostel", true},
		{"hostel", "HOSTEL WING", true},
		{"hostel", "hostelxyz", true},
		{"hostel", "PG Hostel", false},
		{" pg ", "PG", true},
		{"", "Apartment", true},
		{"apartment", "Apt", false},
	}
	for _, tc := range cases {
		if got := MatchesPropertyType(tc.filter, tc.value); got != tc.want {
			t.Fatalf("MatchesPropertyType(%q, %q) = %v, want %v", tc.filter, tc.value, got, tc.want)
		}
	}
}

func TestHasAllAmenitiesRequiresEverything(t *testing.T) {
	l := Listing{Amenities: []string{"WiFi"}}
	if l.HasAllAmenities([]string{"WiFi", "AC"}) {
		t.Fatalf("listing with only WiFi must not satisfy {WiFi, AC}")
	}
	l.Amenities = []string{"AC", "Laundry", "WiFi"}
	if !l.HasAllAmenities([]string{"WiFi", "AC"}) {
		t.Fatalf("listing with WiFi and AC must satisfy {WiFi, AC}")
	}
	if !(Listing{}).HasAllAmenities(nil) {
		t.Fatalf("empty filter must match")
	}
}

func TestHasCoordinatesNeedsBoth(t *testing.T) {
	lat := 12.9
	if (Listing{Latitude: &lat}).HasCoordinates() {
		t.Fatalf("latitude alone is not a coordinate pair")
	}
	lon := 77.6
	if !(Listing{Latitude: &lat, Longitude: &lon}).HasCoordinates() {
		t.Fatalf("expected coordinates present")
	}
}

func TestOwnedBy(t *testing.T) {
	owner := uuid.New()
	l := Listing{CreatedBy: &owner}
	if !l.OwnedBy(owner) || l.OwnedBy(uuid.New()) {
		t.Fatalf("ownership check failed")
	}
	if (Listing{}).OwnedBy(owner) {
		t.Fatalf("listing without creator is owned by nobody")
	}
}
