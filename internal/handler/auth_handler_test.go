package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

type authServiceMock struct {
	registered  []models.RegisterRequest
	registerErr error
	login       *models.LoginResponse
	loginErr    error
}

func (m *authServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registered = append(m.registered, req)
	return &models.User{ID: 1, Username: req.Username}, nil
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return m.login, m.loginErr
}

func TestAuthHandlerRegisterForm(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc, SessionCookie{})

	c, w := newFormContext(http.MethodPost, "/register", url.Values{"username": {"alice"}, "password": {"pw"}})
	h.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.registered, 1)
	assert.Equal(t, "alice", svc.registered[0].Username)
	assert.Equal(t, "/login", decodeEnvelope(t, w).Meta["redirect"])
}

func TestAuthHandlerRegisterDuplicate(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{registerErr: appErrors.Clone(appErrors.ErrDuplicateUser, "username already exists")}, SessionCookie{})

	c, w := newGinContext(http.MethodPost, "/register", []byte(`{"username":"alice","password":"pw"}`))
	h.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_USER", decodeEnvelope(t, w).Error.Code)
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	svc := &authServiceMock{login: &models.LoginResponse{
		Token:     "signed",
		ExpiresAt: time.Now().Add(time.Hour),
		Identity:  models.Identity{UserID: 1, Username: "alice"},
	}}
	h := NewAuthHandler(svc, SessionCookie{Name: "attendance_session"})

	c, w := newFormContext(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "attendance_session", cookies[0].Name)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/dashboard/alice", decodeEnvelope(t, w).Meta["redirect"])
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials}, SessionCookie{})

	c, w := newFormContext(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"bad"}})
	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, SessionCookie{Name: "attendance_session"})

	c, w := newGinContext(http.MethodPost, "/logout", nil)
	h.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
