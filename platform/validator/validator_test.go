package validator

import "testing"

type listingInput struct {
	PropertyType string `validate:"required,property_type"`
}

func TestPropertyTypeTag(t *testing.T) {
	val := New()

	for _, ok := range []string{"Hostel", "PG", "apartment", " other "} {
		if err := val.Struct(listingInput{PropertyType: ok}); err != nil {
			t.Fatalf("expected %q to be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"villa", "hostel wing", ""} {
		if err := val.Struct(listingInput{PropertyType: bad}); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
