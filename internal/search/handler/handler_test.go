package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder_backend/internal/gazetteer"
	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/search/repository"
	"stayfinder_backend/internal/search/service"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/validator"
)

type stubRepo struct {
	listings []model.Listing
	err      error
	lastText repository.TextFilter
}

func (s *stubRepo) FindByText(_ context.Context, f repository.TextFilter) ([]model.Listing, error) {
	s.lastText = f
	return s.listings, s.err
}

func (s *stubRepo) FindWithCoordinates(context.Context) ([]model.Listing, error) {
	return s.listings, s.err
}

type searchConfig struct{}

func (searchConfig) GetSearchDefaultMaxDistanceKm() float64 { return 5 }
func (searchConfig) GetSearchMaxDistanceLimitKm() float64   { return 100 }
func (searchConfig) GetSearchDefaultMinPrice() int          { return 0 }
func (searchConfig) GetSearchDefaultMaxPrice() int          { return 10000 }

type envelope struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	Count        int               `json:"count"`
	Query        string            `json:"query"`
	PropertyType string            `json:"property_type"`
	MaxDistance  float64           `json:"max_distance"`
	College      any               `json:"college"`
	Data         []json.RawMessage `json:"data"`
}

func newEngine(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	places := gazetteer.New([]gazetteer.Entry{{Name: "University of Hyderabad", Latitude: 17.4586, Longitude: 78.3318}})
	svc := service.New(repo, places, nil, logger.Discard())
	h := New(svc, validator.New(), searchConfig{})

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/hostels"))
	return engine
}

func post(t *testing.T, engine *gin.Engine, path, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestSearchTextEnvelope(t *testing.T) {
	repo := &stubRepo{listings: []model.Listing{{ID: uuid.New(), Name: "Sunrise PG", PropertyType: "PG", Price: 4500}}}
	engine := newEngine(repo)

	code, env := post(t, engine, "/api/hostels/search", `{"query":"sunrise","property_type":"pg","max_price":6000}`)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Count)
	assert.Equal(t, "sunrise", env.Query)
	assert.Equal(t, "pg", env.PropertyType)
	assert.Equal(t, 0, repo.lastText.Price.Min)
	assert.Equal(t, 6000, repo.lastText.Price.Max)
}

func TestSearchTextMinPriceOnlyLiftsDefaultCeiling(t *testing.T) {
	repo := &stubRepo{listings: []model.Listing{}}
	engine := newEngine(repo)

	code, env := post(t, engine, "/api/hostels/search", `{"query":"kota","min_price":15000}`)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 15000, repo.lastText.Price.Min)
	assert.GreaterOrEqual(t, repo.lastText.Price.Max, 15000)
}

func TestSearchTextExplicitInvertedRangeIs400(t *testing.T) {
	engine := newEngine(&stubRepo{})

	code, env := post(t, engine, "/api/hostels/search", `{"min_price":5000,"max_price":1000}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "min_price must not exceed max_price", env.Message)
}

func TestSearchTextStoreFailureHidesDriverText(t *testing.T) {
	engine := newEngine(&stubRepo{err: errors.New("pq: relation does not exist")})

	code, env := post(t, engine, "/api/hostels/search", `{"query":"kota"}`)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
	assert.Equal(t, "search failed", env.Message)
}

func TestSearchCollegeEnvelope(t *testing.T) {
	lat, lon := 17.4600, 78.3318
	repo := &stubRepo{listings: []model.Listing{{ID: uuid.New(), Name: "Gachibowli Stay", PropertyType: "Hostel", Latitude: &lat, Longitude: &lon}}}
	engine := newEngine(repo)

	code, env := post(t, engine, "/api/hostels/search/college", `{"college_name":"hyderabad"}`)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Count)
	assert.Equal(t, float64(5), env.MaxDistance)
	assert.Equal(t, "hyderabad", env.Query)
	assert.Equal(t, "University of Hyderabad", env.College, "college is the resolved name, not an object")

	var first map[string]any
	require.NoError(t, json.Unmarshal(env.Data[0], &first))
	assert.Contains(t, first, "distance_from_college")
}

func TestSearchCollegeUnknownIs404(t *testing.T) {
	engine := newEngine(&stubRepo{})

	code, env := post(t, engine, "/api/hostels/search/college", `{"college_name":"Unseen University"}`)

	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "college not found", env.Message)
}

func TestSearchCollegeMissingNameIs400(t *testing.T) {
	engine := newEngine(&stubRepo{})

	code, env := post(t, engine, "/api/hostels/search/college", `{"max_distance":3}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "college name required", env.Message)
}

func TestSearchCollegeDistanceAboveLimitIs400(t *testing.T) {
	engine := newEngine(&stubRepo{})

	code, env := post(t, engine, "/api/hostels/search/college", `{"college_name":"hyderabad","max_distance":500}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}
