package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/attendance-tracker/internal/models"
)

type stubValidator map[string]*models.Identity

func (s stubValidator) ValidateToken(token string) (*models.Identity, error) {
	if identity, ok := s[token]; ok {
		return identity, nil
	}
	return nil, errors.New("invalid token")
}

func serveIdentity(t *testing.T, req *http.Request) *models.Identity {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator := stubValidator{"good": {UserID: 1, Username: "alice"}}

	var seen *models.Identity
	router := gin.New()
	router.Use(Identity(validator, "attendance_session"))
	router.GET("/", func(c *gin.Context) {
		seen = IdentityFromContext(c)
		c.Status(http.StatusNoContent)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	return seen
}

func TestIdentityFromBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	identity := serveIdentity(t, req)
	if assert.NotNil(t, identity) {
		assert.Equal(t, "alice", identity.Username)
	}
}

func TestIdentityFromCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "attendance_session", Value: "good"})

	identity := serveIdentity(t, req)
	if assert.NotNil(t, identity) {
		assert.Equal(t, int64(1), identity.UserID)
	}
}

func TestIdentityNeverBlocks(t *testing.T) {
	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, serveIdentity(t, anonymous))

	invalid := httptest.NewRequest(http.MethodGet, "/", nil)
	invalid.Header.Set("Authorization", "Bearer forged")
	assert.Nil(t, serveIdentity(t, invalid))

	malformed := httptest.NewRequest(http.MethodGet, "/", nil)
	malformed.Header.Set("Authorization", "good")
	assert.Nil(t, serveIdentity(t, malformed))
}
