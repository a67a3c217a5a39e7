package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/models"
)

func TestFollowUnfollow(t *testing.T) {
	ctx := context.Background()
	svc := &SocialService{Repo: newTestRepo(t)}
	alice := mustUser(t, svc.Repo, "alice")
	bob := mustUser(t, svc.Repo, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	// both adjacency lists updated
	a, err := svc.Repo.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, a.Following.Contains(bob.ID))
	b, err := svc.Repo.UserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, b.Followers.Contains(alice.ID))

	// following is one-directional
	require.False(t, a.Followers.Contains(bob.ID))
	require.False(t, b.Following.Contains(alice.ID))

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	a, err = svc.Repo.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, a.Following.Contains(bob.ID))
	b, err = svc.Repo.UserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.False(t, b.Followers.Contains(alice.ID))
}

func TestFollowRejections(t *testing.T) {
	ctx := context.Background()
	svc := &SocialService{Repo: newTestRepo(t)}
	alice := mustUser(t, svc.Repo, "alice")
	bob := mustUser(t, svc.Repo, "bob")

	require.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), apperr.ErrSelfFollow)
	require.ErrorIs(t, svc.Follow(ctx, alice.ID, 9999), apperr.ErrUserNotFound)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.ErrorIs(t, svc.Follow(ctx, alice.ID, bob.ID), apperr.ErrAlreadyFollowing)

	require.ErrorIs(t, svc.Unfollow(ctx, bob.ID, alice.ID), apperr.ErrNotFollowing)
	require.ErrorIs(t, svc.Unfollow(ctx, alice.ID, 9999), apperr.ErrUserNotFound)
}

func TestProfileExpandsSummaries(t *testing.T) {
	ctx := context.Background()
	svc := &SocialService{Repo: newTestRepo(t)}
	alice := mustUser(t, svc.Repo, "alice")
	bob := mustUser(t, svc.Repo, "bob")
	carol := mustUser(t, svc.Repo, "carol")

	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, svc.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	profile, err := svc.Profile(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, profile.Followers, 2)
	require.Len(t, profile.Following, 1)
	require.Equal(t, "bob", profile.Following[0].Username)

	_, err = svc.Profile(ctx, 9999)
	require.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := &SocialService{Repo: newTestRepo(t)}
	alice := mustUser(t, svc.Repo, "alice")

	bio := "Investing in Seoul officetels"
	goals := []string{"cash-flow", "appreciation"}
	assets := 1_500_000.0
	updated, err := svc.UpdateProfile(ctx, alice.ID, ProfilePatch{
		Bio:             &bio,
		InvestmentGoals: &goals,
		TotalAssets:     &assets,
	})
	require.NoError(t, err)
	require.Equal(t, bio, updated.Bio)
	require.Equal(t, models.StringList(goals), updated.InvestmentGoals)
	require.Equal(t, assets, updated.TotalAssets)

	// untouched fields survive
	require.Equal(t, "alice", updated.FirstName)

	badGoals := []string{"moonshots"}
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfilePatch{InvestmentGoals: &badGoals})
	require.Error(t, err)

	longBio := string(make([]byte, 501))
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfilePatch{Bio: &longBio})
	require.Error(t, err)
}
