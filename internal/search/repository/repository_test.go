package repository

import (
	"strings"
	"testing"

	"stayfinder_backend/internal/search/domain"
	"stayfinder_backend/internal/search/normalizer"
)

func TestBuildTextWhereMatchAll(t *testing.T) {
	where, args := BuildTextWhere(TextFilter{
		Condition: normalizer.Normalize(""),
		Price:     domain.PriceRange{Min: 0, Max: 10000},
	})

	if where != "price BETWEEN $1 AND $2" {
		t.Fatalf("unexpected where clause %q", where)
	}
	if len(args) != 2 || args[0] != 0 || args[1] != 10000 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildTextWhereFullFilter(t *testing.T) {
	where, args := BuildTextWhere(TextFilter{
		Condition:    normalizer.Normalize("ab"),
		PropertyType: "hostel",
		Price:        domain.PriceRange{Min: 1000, Max: 5000},
		Amenities:    []string{"WiFi", "AC"},
	})

	want := "(name ~* $1 OR city ~* $2 OR location ~* $3) AND starts_with(lower(property_type), lower($4)) AND price BETWEEN $5 AND $6 AND amenities @> $7"
	if where != want {
		t.Fatalf("unexpected where clause:\nwant: %s\ngot:  %s", want, where)
	}
	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(args))
	}
	if args[0] != "^ab$" {
		t.Fatalf("expected escaped exact pattern, got %v", args[0])
	}
	if args[3] != "hostel" {
		t.Fatalf("expected property type arg, got %v", args[3])
	}
}

func TestBuildTextWhereLongQueryCoversDescAndAddress(t *testing.T) {
	where, args := BuildTextWhere(TextFilter{
		Condition: normalizer.Normalize("kota"),
		Price:     domain.PriceRange{Min: 0, Max: 10000},
	})

	for _, col := range []string{"description ~*", "address ~*"} {
		if !strings.Contains(where, col) {
			t.Fatalf("expected %q in where clause %q", col, where)
		}
	}
	if args[0] != `\mkota\M` {
		t.Fatalf("expected word pattern first, got %v", args[0])
	}
}
