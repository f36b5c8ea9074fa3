package services

import (
	"context"
	"strings"
	"time"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/logger"
)

type NewsInput struct {
	Title   string `json:"title"   validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// NewsService publishes posts that expire ttl after creation.
type NewsService struct {
	posts *repositories.NewsRepository
	ttl   time.Duration
	now   func() time.Time
}

func NewNewsService(posts *repositories.NewsRepository, ttl time.Duration, now func() time.Time) *NewsService {
	if now == nil {
		now = time.Now
	}
	return &NewsService{posts: posts, ttl: ttl, now: now}
}

func (s *NewsService) Create(ctx context.Context, author *models.User, in NewsInput) (*models.NewsPost, error) {
	now := s.now().UTC()
	post := &models.NewsPost{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		AuthorID:  author.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = author

	logger.WithCtx(ctx).Info("news published", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// List returns the posts still visible now, newest first.
func (s *NewsService) List(ctx context.Context) ([]models.NewsPost, error) {
	return s.posts.Active(ctx, s.now().UTC())
}
