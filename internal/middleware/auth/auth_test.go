package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/tokens"
)

func newMiddleware(t *testing.T) (*Middleware, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	r := repo.New(db)
	user := &models.User{
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Kim",
	}
	require.NoError(t, db.Create(user).Error)

	issuer := &tokens.Issuer{
		AccessSecret:  []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
	return &Middleware{Repo: r, Tokens: issuer}, user
}

func doRequest(m *Middleware, wrap func(echo.HandlerFunc) echo.HandlerFunc, authz string) (error, *models.User) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	handler := wrap(func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			seen = u
		}
		return c.NoContent(http.StatusOK)
	})
	return handler(c), seen
}

func TestRequireAttachesUser(t *testing.T) {
	m, user := newMiddleware(t)
	pair, err := m.Tokens.IssuePair(user.ID)
	require.NoError(t, err)

	err, seen := doRequest(m, m.Require, "Bearer "+pair.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, seen)
	require.Equal(t, user.ID, seen.ID)
}

func TestRequireRejections(t *testing.T) {
	m, user := newMiddleware(t)

	err, _ := doRequest(m, m.Require, "")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	err, _ = doRequest(m, m.Require, "Basic abc123")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	err, _ = doRequest(m, m.Require, "Bearer not-a-jwt")
	require.ErrorIs(t, err, apperr.ErrInvalidToken)

	// token signed with another secret
	other := &tokens.Issuer{AccessSecret: []byte("other"), RefreshSecret: []byte("other"), AccessTTL: time.Hour, RefreshTTL: time.Hour}
	pair, err2 := other.IssuePair(user.ID)
	require.NoError(t, err2)
	err, _ = doRequest(m, m.Require, "Bearer "+pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)

	// expired token
	expired := &tokens.Issuer{AccessSecret: m.Tokens.AccessSecret, RefreshSecret: m.Tokens.RefreshSecret, AccessTTL: -time.Minute, RefreshTTL: time.Hour}
	pair, err2 = expired.IssuePair(user.ID)
	require.NoError(t, err2)
	err, _ = doRequest(m, m.Require, "Bearer "+pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)

	// valid signature over a deleted account
	pair, err2 = m.Tokens.IssuePair(9999)
	require.NoError(t, err2)
	err, _ = doRequest(m, m.Require, "Bearer "+pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)

	// refresh token in the access slot
	pair, err2 = m.Tokens.IssuePair(user.ID)
	require.NoError(t, err2)
	err, _ = doRequest(m, m.Require, "Bearer "+pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestOptionalNeverFails(t *testing.T) {
	m, user := newMiddleware(t)

	err, seen := doRequest(m, m.Optional, "")
	require.NoError(t, err)
	require.Nil(t, seen)

	err, seen = doRequest(m, m.Optional, "Bearer garbage")
	require.NoError(t, err)
	require.Nil(t, seen)

	pair, err2 := m.Tokens.IssuePair(user.ID)
	require.NoError(t, err2)
	err, seen = doRequest(m, m.Optional, "Bearer "+pair.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, seen)
}
