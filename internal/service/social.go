package service

import (
	"context"
	"strings"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/logging"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
)

type SocialService struct {
	Repo *repo.GormRepo
}

// Profile returns a user with both adjacency lists expanded into summaries.
func (s *SocialService) Profile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	followers, err := s.Repo.UsersByIDs(ctx, user.Followers)
	if err != nil {
		return nil, err
	}
	following, err := s.Repo.UsersByIDs(ctx, user.Following)
	if err != nil {
		return nil, err
	}

	return &models.UserProfile{User: *user, Followers: followers, Following: following}, nil
}

type ProfilePatch struct {
	FirstName           *string
	LastName            *string
	Bio                 *string
	Avatar              *string
	Location            *string
	InvestmentGoals     *[]string
	TotalAssets         *float64
	MonthlyRentalIncome *float64
	PropertyCount       *int
}

func (s *SocialService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "social.update_profile")

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	if patch.FirstName != nil && *patch.FirstName != "" {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil && *patch.LastName != "" {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Bio != nil {
		if len(*patch.Bio) > 500 {
			return nil, apperr.Validation("bio must be 500 characters or fewer")
		}
		user.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Location != nil {
		user.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.InvestmentGoals != nil {
		for _, g := range *patch.InvestmentGoals {
			if !models.ValidInvestmentGoal(g) {
				return nil, apperr.Validation("unknown investment goal: " + g)
			}
		}
		user.InvestmentGoals = models.StringList(*patch.InvestmentGoals)
	}
	if patch.TotalAssets != nil {
		user.TotalAssets = *patch.TotalAssets
	}
	if patch.MonthlyRentalIncome != nil {
		user.MonthlyRentalIncome = *patch.MonthlyRentalIncome
	}
	if patch.PropertyCount != nil {
		user.PropertyCount = *patch.PropertyCount
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("profile save failed", "user_id", userID, "error", err)
		return nil, err
	}
	return user, nil
}

// Follow appends the edge to both denormalized lists. Re-following is an
// explicit 400, not a silent no-op.
func (s *SocialService) Follow(ctx context.Context, currentID, targetID uint) error {
	l := logging.FromContext(ctx).With("svc", "social.follow", "user_id", currentID, "target_id", targetID)

	if currentID == targetID {
		return apperr.ErrSelfFollow
	}

	target, err := s.Repo.UserByID(ctx, targetID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	current, err := s.Repo.UserByID(ctx, currentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if !current.Following.Add(targetID) {
		return apperr.ErrAlreadyFollowing
	}
	target.Followers.Add(currentID)

	if err := s.Repo.SaveFollowEdge(ctx, current, target); err != nil {
		l.Error("follow save failed", "error", err)
		return err
	}

	l.Info("follow created")
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, currentID, targetID uint) error {
	l := logging.FromContext(ctx).With("svc", "social.unfollow", "user_id", currentID, "target_id", targetID)

	target, err := s.Repo.UserByID(ctx, targetID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	current, err := s.Repo.UserByID(ctx, currentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if !current.Following.Remove(targetID) {
		return apperr.ErrNotFollowing
	}
	target.Followers.Remove(currentID)

	if err := s.Repo.SaveFollowEdge(ctx, current, target); err != nil {
		l.Error("unfollow save failed", "error", err)
		return err
	}

	l.Info("follow removed")
	return nil
}
