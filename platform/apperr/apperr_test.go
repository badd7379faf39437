package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetKindSeesThroughWrapping(t *testing.T) {
	base := NotFound("college not found")
	wrapped := fmt.Errorf("search by college: %w", base)

	if GetKind(wrapped) != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", GetKind(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected Is to match wrapped not found error")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected KindUnknown for untyped error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindValidation:   http.StatusBadRequest,
		KindForbidden:    http.StatusForbidden,
		KindConflict:     http.StatusConflict,
		KindUnavailable:  http.StatusServiceUnavailable,
		KindInternal:     http.StatusInternalServerError,
		KindUnauthorized: http.StatusUnauthorized,
	}
	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %v: expected %d, got %d", kind, want, got)
		}
	}
}

func TestPublicMessageHidesStoreErrors(t *testing.T) {
	storeErr := Unavailable("search failed", errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	if got := PublicMessage(storeErr, "unexpected error"); got != "search failed" {
		t.Fatalf("expected typed message, got %q", got)
	}
	if got := PublicMessage(errors.New("pq: secret detail"), "unexpected error"); got != "unexpected error" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := PublicMessage(Validation("college name required"), "x"); got != "college name required" {
		t.Fatalf("expected validation message, got %q", got)
	}
}
