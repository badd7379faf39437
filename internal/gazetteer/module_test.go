package gazetteer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiltersByQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewModule(New([]Entry{
		{Name: "Delhi Technological University", Latitude: 28.7501, Longitude: 77.1177},
		{Name: "University of Mumbai", Latitude: 18.9730, Longitude: 72.8258},
	}))

	engine := gin.New()
	engine.GET("/api/colleges", m.List)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/colleges?q=mumbai", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool    `json:"success"`
		Data    []Entry `json:"data"`
		Count   int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "University of Mumbai", body.Data[0].Name)
}
