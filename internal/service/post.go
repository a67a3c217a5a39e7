package service

import (
	"context"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/logging"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/service/search"
)

type PostService struct {
	Repo *repo.GormRepo

	// ES is optional; without it posts are not indexed and Search reports
	// unavailability.
	ES      *elasticsearch.Client
	ESIndex string
}

type PostInput struct {
	Content  string
	Images   []string
	Tags     []string
	Location string
	IsPublic *bool
}

type PostPatch struct {
	Content  *string
	Images   *[]string
	Tags     *[]string
	Location *string
	IsPublic *bool
}

func normalizeTags(tags []string) models.StringList {
	out := make(models.StringList, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.PostView, error) {
	l := logging.FromContext(ctx).With("svc", "post.create", "author_id", authorID)

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if len(content) > 2000 {
		return nil, apperr.Validation("content must be 2000 characters or fewer")
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		Images:   models.StringList(in.Images),
		Tags:     normalizeTags(in.Tags),
		Location: strings.TrimSpace(in.Location),
		Likes:    models.IDList{},
		IsPublic: true,
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}

	if err := s.Repo.CreatePost(ctx, post); err != nil {
		l.Error("post create failed", "error", err)
		return nil, err
	}

	s.index(ctx, post)

	l.Info("post created", "post_id", post.ID)
	return s.view(ctx, post, authorID)
}

func (s *PostService) Get(ctx context.Context, postID, viewerID uint) (*models.PostView, error) {
	post, err := s.Repo.PostByID(ctx, postID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrPostNotFound
		}
		return nil, err
	}
	return s.view(ctx, post, viewerID)
}

type ListResult struct {
	Posts []models.PostView
	Total int64
}

func (s *PostService) List(ctx context.Context, f repo.PostFilter, offset, limit int, viewerID uint) (*ListResult, error) {
	f.PublicOnly = true
	posts, total, err := s.Repo.ListPosts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.views(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Posts: views, Total: total}, nil
}

// ListByAuthor powers the profile feed; it includes the author's private
// posts only when the author is the viewer.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, offset, limit int, viewerID uint) (*ListResult, error) {
	if _, err := s.Repo.UserByID(ctx, authorID); err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	f := repo.PostFilter{AuthorID: authorID, PublicOnly: viewerID != authorID}
	posts, total, err := s.Repo.ListPosts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.views(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Posts: views, Total: total}, nil
}

func (s *PostService) Update(ctx context.Context, postID, userID uint, patch PostPatch) (*models.PostView, error) {
	l := logging.FromContext(ctx).With("svc", "post.update", "post_id", postID)

	post, err := s.Repo.PostByID(ctx, postID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperr.ErrForbidden
	}

	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, apperr.Validation("content is required")
		}
		if len(content) > 2000 {
			return nil, apperr.Validation("content must be 2000 characters or fewer")
		}
		post.Content = content
	}
	if patch.Images != nil {
		post.Images = models.StringList(*patch.Images)
	}
	if patch.Tags != nil {
		post.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Location != nil {
		post.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.IsPublic != nil {
		post.IsPublic = *patch.IsPublic
	}

	if err := s.Repo.SavePost(ctx, post); err != nil {
		l.Error("post save failed", "error", err)
		return nil, err
	}

	s.index(ctx, post)

	return s.view(ctx, post, userID)
}

func (s *PostService) Delete(ctx context.Context, postID, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "post.delete", "post_id", postID)

	post, err := s.Repo.PostByID(ctx, postID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != userID {
		return apperr.ErrForbidden
	}

	if err := s.Repo.DeletePost(ctx, postID); err != nil {
		l.Error("post delete failed", "error", err)
		return err
	}

	if s.ES != nil {
		if err := search.DeleteDoc(ctx, s.ES, s.ESIndex, postID); err != nil {
			l.Warn("search deindex failed", "error", err)
		}
	}

	l.Info("post deleted")
	return nil
}

// Like adds the viewer to the like set and returns the new count. A repeat
// like is rejected, not absorbed.
func (s *PostService) Like(ctx context.Context, postID, userID uint) (int, error) {
	post, err := s.Repo.PostByID(ctx, postID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, apperr.ErrPostNotFound
		}
		return 0, err
	}

	if !post.Likes.Add(userID) {
		return 0, apperr.ErrAlreadyLiked
	}
	if err := s.Repo.SetLikes(ctx, postID, post.Likes); err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}

func (s *PostService) Unlike(ctx context.Context, postID, userID uint) (int, error) {
	post, err := s.Repo.PostByID(ctx, postID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, apperr.ErrPostNotFound
		}
		return 0, err
	}

	if !post.Likes.Remove(userID) {
		return 0, apperr.ErrNotLiked
	}
	if err := s.Repo.SetLikes(ctx, postID, post.Likes); err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}

func (s *PostService) Share(ctx context.Context, postID uint) (uint, error) {
	if _, err := s.Repo.PostByID(ctx, postID); err != nil {
		if repo.IsNotFound(err) {
			return 0, apperr.ErrPostNotFound
		}
		return 0, err
	}
	return s.Repo.IncrementShares(ctx, postID)
}

func (s *PostService) Search(ctx context.Context, query string, from, size int) (int64, []search.Doc, error) {
	if s.ES == nil {
		return 0, nil, apperr.New(503, "search is not available")
	}
	return search.Search(ctx, s.ES, s.ESIndex, query, from, size)
}

func (s *PostService) index(ctx context.Context, post *models.Post) {
	if s.ES == nil {
		return
	}
	doc := search.Doc{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		Tags:      post.Tags,
		Location:  post.Location,
		IsPublic:  post.IsPublic,
		CreatedAt: post.CreatedAt,
	}
	if err := search.IndexDoc(ctx, s.ES, s.ESIndex, doc); err != nil {
		logging.FromContext(ctx).Warn("search index failed", "post_id", post.ID, "error", err)
	}
}

func (s *PostService) view(ctx context.Context, post *models.Post, viewerID uint) (*models.PostView, error) {
	var author *models.UserSummary
	if u, err := s.Repo.UserByID(ctx, post.AuthorID); err == nil {
		sum := models.Summarize(u)
		author = &sum
	}
	v := models.NewPostView(*post, author, viewerID)
	return &v, nil
}

func (s *PostService) views(ctx context.Context, posts []models.Post, viewerID uint) ([]models.PostView, error) {
	authorIDs := models.IDList{}
	for i := range posts {
		authorIDs.Add(posts[i].AuthorID)
	}
	summaries, err := s.Repo.UsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.UserSummary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}

	views := make([]models.PostView, len(posts))
	for i := range posts {
		var author *models.UserSummary
		if sum, ok := byID[posts[i].AuthorID]; ok {
			author = &sum
		}
		views[i] = models.NewPostView(posts[i], author, viewerID)
	}
	return views, nil
}
