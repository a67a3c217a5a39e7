package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists runs the combined duplicate check used by registration: one
// query over both unique identities.
func (r *GormRepo) UserExists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) SetRefreshToken(ctx context.Context, userID uint, token string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// SaveFollowEdge persists both sides of a follow mutation in one
// transaction so the adjacency lists cannot diverge on a partial failure.
// Only the list columns are written.
func (r *GormRepo) SaveFollowEdge(ctx context.Context, current, target *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", current.ID).
			Update("following", current.Following).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", target.ID).
			Update("followers", target.Followers).Error
	})
}

// UsersByIDs returns summaries in the order of ids; missing ids are skipped.
func (r *GormRepo) UsersByIDs(ctx context.Context, ids models.IDList) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).Find(&users, "id IN ?", []uint(ids)).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, models.Summarize(u))
		}
	}
	return out, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
