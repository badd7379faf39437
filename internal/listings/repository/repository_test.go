package repository

import "testing"

func TestBuildListWhereDefaults(t *testing.T) {
	where, args := buildListWhere(ListParams{MinPrice: 0, MaxPrice: 10000})
	if where != "price BETWEEN $1 AND $2" {
		t.Fatalf("unexpected where %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestBuildListWhereAllFilters(t *testing.T) {
	where, args := buildListWhere(ListParams{
		City:         " Pune ",
		PropertyType: "PG",
		MinPrice:     2000,
		MaxPrice:     8000,
		Amenities:    []string{"WiFi", "Laundry"},
	})

	want := "price BETWEEN $1 AND $2 AND lower(city) = lower($3) AND lower(property_type) = lower($4) AND amenities @> $5"
	if where != want {
		t.Fatalf("unexpected where:\nwant: %s\ngot:  %s", want, where)
	}
	if args[2] != "Pune" {
		t.Fatalf("expected trimmed city, got %v", args[2])
	}
}
