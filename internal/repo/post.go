package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/models"
)

type PostFilter struct {
	Location string
	Tags     []string
	AuthorID uint
	// PublicOnly gates listing; single-post fetches bypass it.
	PublicOnly bool
}

func (r *GormRepo) CreatePost(ctx context.Context, p *models.Post) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) SavePost(ctx context.Context, p *models.Post) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeletePost(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}

// SetLikes writes only the likes column; a like must not clobber concurrent
// content edits.
func (r *GormRepo) SetLikes(ctx context.Context, postID uint, likes models.IDList) error {
	return r.DB.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("likes", likes).Error
}

// IncrementShares bumps the counter atomically in the database.
func (r *GormRepo) IncrementShares(ctx context.Context, postID uint) (uint, error) {
	err := r.DB.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("shares", gorm.Expr("shares + 1")).Error
	if err != nil {
		return 0, err
	}

	var post models.Post
	if err := r.DB.WithContext(ctx).Select("shares").First(&post, "id = ?", postID).Error; err != nil {
		return 0, err
	}
	return post.Shares, nil
}

func (r *GormRepo) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Post{})

	if f.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	// Tags live in a JSON text column; LIKE over the quoted value stands in
	// for array membership.
	for _, tag := range f.Tags {
		q = q.Where(`tags LIKE ?`, `%"`+strings.ToLower(tag)+`"%`)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
