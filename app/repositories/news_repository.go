package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/apperror"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return apperror.Internal(err, "create news post")
	}
	return nil
}

// Active returns posts that have not expired at now, newest first.
func (r *NewsRepository) Active(ctx context.Context, now time.Time) ([]models.NewsPost, error) {
	var posts []models.NewsPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("expires_at > ?", now).
		Order("created_at desc").Order("id desc").
		Find(&posts).Error
	if err != nil {
		return nil, apperror.Internal(err, "list news")
	}
	return posts, nil
}
