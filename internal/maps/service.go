package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
)

const (
	suggestionLimit  = 5
	breakerThreshold = 5
	breakerTimeout   = 30 * time.Second
)

// ErrNoMatch is returned by Geocode when the address resolves to nothing.
var ErrNoMatch = errors.New("address not found")

// Service queries Nominatim through a circuit breaker so an upstream outage
// fails fast instead of stalling listing writes.
type Service struct {
	client    *http.Client
	baseURL   string
	countries string
	userAgent string
	breaker   *gobreaker.CircuitBreaker[[]nominatimResponse]
	log       *logger.Logger
}

func NewService(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return NewServiceWithClient(cfg, &http.Client{Timeout: 5 * time.Second}, log)
}

// NewServiceWithClient is NewService with an explicit HTTP client.
func NewServiceWithClient(cfg config.GeocoderConfig, client *http.Client, log *logger.Logger) *Service {
	s := &Service{
		client:    client,
		baseURL:   cfg.GetGeocoderURL(),
		countries: cfg.GetGeocoderCountryCodes(),
		userAgent: cfg.GetGeocoderUserAgent(),
		log:       log,
	}
	s.breaker = gobreaker.NewCircuitBreaker[[]nominatimResponse](gobreaker.Settings{
		Name:    "nominatim",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("geocoder circuit state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return s
}

// SearchAddress returns up to five address suggestions for query.
func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	rawResults, err := s.query(ctx, query, suggestionLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]AddressSuggestion, 0, len(rawResults))
	for _, raw := range rawResults {
		suggestion, ok := buildSuggestion(raw)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// Geocode resolves a free-form address to coordinates.
func (s *Service) Geocode(ctx context.Context, address string) (float64, float64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, 0, ErrNoMatch
	}

	rawResults, err := s.query(ctx, address, 1)
	if err != nil {
		return 0, 0, err
	}
	if len(rawResults) == 0 {
		return 0, 0, ErrNoMatch
	}

	lat, lon, ok := parseCoordinates(rawResults[0])
	if !ok {
		return 0, 0, ErrNoMatch
	}
	return lat, lon, nil
}

func (s *Service) query(ctx context.Context, q string, limit int) ([]nominatimResponse, error) {
	return s.breaker.Execute(func() ([]nominatimResponse, error) {
		return s.fetch(ctx, q, limit)
	})
}

func (s *Service) fetch(ctx context.Context, q string, limit int) ([]nominatimResponse, error) {
	params := url.Values{}
	params.Add("q", q)
	params.Add("format", "json")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(limit))
	if s.countries != "" {
		params.Add("countrycodes", s.countries)
	}

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("nominatim request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		s.log.Error("failed to decode nominatim payload", "error", err)
		return nil, err
	}
	return rawResults, nil
}

func parseCoordinates(raw nominatimResponse) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}
	lat, lon, ok := parseCoordinates(raw)
	if !ok {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Road:     raw.Address.Road,
		Locality: pickLocality(raw.Address),
		City:     city,
		State:    raw.Address.State,
		Postcode: raw.Address.Postcode,
		Lat:      lat,
		Lon:      lon,
	}
	suggestion.Label = buildLabel(suggestion)
	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	for _, candidate := range []string{address.City, address.Town, address.Village, address.StateDistrict} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func pickLocality(address nominatimAddress) string {
	if address.Suburb != "" {
		return address.Suburb
	}
	return address.Neighbourhood
}

func buildLabel(s AddressSuggestion) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{s.Road, s.Locality, s.City, s.State, s.Postcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
