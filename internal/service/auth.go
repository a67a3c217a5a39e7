package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/hash"
	"github.com/realtyconnect/community-api/internal/logging"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Username  string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	exists, err := s.Repo.UserExists(ctx, email, username)
	if err != nil {
		l.Error("existence check failed", "error", err)
		return nil, nil, err
	}
	if exists {
		return nil, nil, apperr.ErrDuplicateUser
	}

	user := &models.User{
		Email:     email,
		Username:  username,
		Password:  in.Password,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Followers: models.IDList{},
		Following: models.IDList{},
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		l.Error("user create failed", "error", err)
		return nil, nil, err
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, err
	}
	user.RefreshToken = pair.RefreshToken

	l.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repo.IsNotFound(err) {
			// Same failure for unknown email and wrong password.
			return nil, nil, apperr.ErrInvalidCredentials
		}
		l.Error("user lookup failed", "error", err)
		return nil, nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, apperr.ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	// Overwrites any previous refresh token: one live session per account.
	if err := s.Repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, err
	}
	user.RefreshToken = pair.RefreshToken

	l.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, apperr.ErrInvalidRefresh
	}

	claims, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperr.ErrInvalidRefresh
	}
	userID, err := tokens.UserID(claims.Subject)
	if err != nil {
		return nil, apperr.ErrInvalidRefresh
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrInvalidRefresh
		}
		l.Error("user lookup failed", "error", err)
		return nil, err
	}

	// A rotated-out or forged token fails the exact-match check even when
	// its signature is still valid.
	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		l.Warn("stale refresh token presented", "user_id", userID)
		return nil, apperr.ErrInvalidRefresh
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	// Rotation-on-use: the presented token is dead the moment this lands.
	if err := s.Repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout clears the stored refresh token. Outstanding access tokens stay
// valid until they expire on their own.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.SetRefreshToken(ctx, userID, ""); err != nil {
		l.Error("refresh token clear failed", "user_id", userID, "error", err)
		return err
	}
	l.Info("user logged out", "user_id", userID)
	return nil
}
