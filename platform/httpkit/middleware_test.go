package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwtConfig string

func (c jwtConfig) GetJWTAccessSecret() string { return string(c) }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseAccessToken(t *testing.T) {
	userID := uuid.New()
	valid := signToken(t, "s3cret", jwt.MapClaims{
		"sub":  userID.String(),
		"type": AccessTokenType,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	got, err := ParseAccessToken(valid, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = ParseAccessToken(valid, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh := signToken(t, "s3cret", jwt.MapClaims{"sub": userID.String(), "type": "refresh"})
	_, err = ParseAccessToken(refresh, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := signToken(t, "s3cret", jwt.MapClaims{
		"sub":  userID.String(),
		"type": AccessTokenType,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	_, err = ParseAccessToken(expired, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	token := signToken(t, "s3cret", jwt.MapClaims{"sub": userID.String(), "type": AccessTokenType})

	engine := gin.New()
	engine.GET("/me", AuthRequired(jwtConfig("s3cret")), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.String(http.StatusOK, id.UserID().String())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"missing token"}`, rec.Body.String())
}
