package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder_backend/platform/logger"
)

type geocoderConfig string

func (c geocoderConfig) GetGeocoderURL() string          { return string(c) }
func (c geocoderConfig) GetGeocoderCountryCodes() string { return "in" }
func (c geocoderConfig) GetGeocoderUserAgent() string    { return "stayfinder-test" }

const kotaPayload = `[{
  "display_name": "Talwandi, Kota, Rajasthan, 324005, India",
  "lat": "25.1416", "lon": "75.8453",
  "address": {"road": "Jhalawar Road", "suburb": "Talwandi", "city": "Kota", "state": "Rajasthan", "postcode": "324005"}
}]`

func TestSearchAddressBuildsSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "in", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "stayfinder-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(kotaPayload))
	}))
	defer srv.Close()

	svc := NewServiceWithClient(geocoderConfig(srv.URL), srv.Client(), logger.Discard())
	got, err := svc.SearchAddress(context.Background(), "talwandi kota")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jhalawar Road, Talwandi, Kota, Rajasthan, 324005", got[0].Label)
	assert.InDelta(t, 25.1416, got[0].Lat, 1e-9)
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewServiceWithClient(geocoderConfig(srv.URL), srv.Client(), logger.Discard())
	_, _, err := svc.Geocode(context.Background(), "nowhere at all")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewServiceWithClient(geocoderConfig(srv.URL), srv.Client(), logger.Discard())
	for i := 0; i < breakerThreshold+3; i++ {
		_, _, err := svc.Geocode(context.Background(), "MG Road Bengaluru")
		require.Error(t, err)
	}
	assert.Equal(t, breakerThreshold, calls)
}
