package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/validator"
)

func newEngine(userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	if userID != nil {
		api.Use(func(c *gin.Context) { c.Set(httpkit.ContextUserIDKey, *userID) })
	}
	New(nil, validator.New()).RegisterRoutes(api)
	return engine
}

func TestBookingRoutesRequireIdentity(t *testing.T) {
	engine := newEngine(nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusRejectsBadInput(t *testing.T) {
	id := uuid.New()
	engine := newEngine(&id)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/not-a-uuid/status", strings.NewReader(`{"status":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid booking id")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/bookings/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
}

func TestCreateValidatesDate(t *testing.T) {
	id := uuid.New()
	engine := newEngine(&id)

	rec := httptest.NewRecorder()
	body := `{"hostel_id":"` + uuid.NewString() + `","move_in_date":"June 1st"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
