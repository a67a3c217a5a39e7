package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/tokens"
)

const userContextKey = "currentUser"

type Middleware struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (m *Middleware) resolve(c echo.Context) (*models.User, error) {
	raw := bearerToken(c)
	if raw == "" {
		return nil, apperr.ErrUnauthorized
	}

	claims, err := m.Tokens.ParseAccess(raw)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	userID, err := tokens.UserID(claims.Subject)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}

	// A valid signature over a deleted account still gets rejected.
	user, err := m.Repo.UserByID(c.Request().Context(), userID)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	return user, nil
}

// Require rejects the request with 401 unless a valid bearer token resolves
// to an existing user, which is then attached to the context.
func (m *Middleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolve(c)
		if err != nil {
			return err
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// Optional attaches the user when the token resolves and continues without
// one on every failure path.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := m.resolve(c); err == nil {
			c.Set(userContextKey, user)
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userContextKey).(*models.User)
	return user, ok
}

// MustCurrentUser is for handlers behind Require, where a missing user means
// broken middleware wiring rather than a client error.
func MustCurrentUser(c echo.Context) *models.User {
	user, ok := CurrentUser(c)
	if !ok {
		panic("auth: handler reached without authenticated user")
	}
	return user
}
