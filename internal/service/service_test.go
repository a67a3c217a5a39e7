package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/tokens"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))
	return repo.New(db)
}

func testIssuer() *tokens.Issuer {
	return &tokens.Issuer{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func mustUser(t *testing.T, r *repo.GormRepo, name string) *models.User {
	t.Helper()
	u := &models.User{
		Email:     fmt.Sprintf("%s@example.com", name),
		Username:  name,
		Password:  "password123",
		FirstName: name,
		LastName:  "Tester",
		Followers: models.IDList{},
		Following: models.IDList{},
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}
