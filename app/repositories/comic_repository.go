package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/database"
)

// LineCleaner removes line items referencing a comic on the caller's
// transaction. *CollectionRepository implements it.
type LineCleaner interface {
	DeleteByComic(tx *gorm.DB, comicID uint) error
}

// ComicRepository handles database operations for the catalog.
type ComicRepository struct {
	db    *gorm.DB
	lines LineCleaner
}

func NewComicRepository(db *gorm.DB, lines LineCleaner) *ComicRepository {
	return &ComicRepository{db: db, lines: lines}
}

// List returns comics ordered by id. Redacted comics are only included
// when includeRedacted is set.
func (r *ComicRepository) List(ctx context.Context, includeRedacted bool) ([]models.Comic, error) {
	q := r.db.WithContext(ctx).Preload("Category").Preload("Condition").Order("id")
	if !includeRedacted {
		q = q.Where("redacted = ?", false)
	}

	var comics []models.Comic
	if err := q.Find(&comics).Error; err != nil {
		return nil, apperror.Internal(err, "list comics")
	}
	return comics, nil
}

// FindByID loads a comic with its category and condition, redacted or not.
func (r *ComicRepository) FindByID(ctx context.Context, id uint) (*models.Comic, error) {
	var comic models.Comic
	err := r.db.WithContext(ctx).Preload("Category").Preload("Condition").Take(&comic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFoundf("comic %d not found", id)
	}
	if err != nil {
		return nil, apperror.Internal(err, "find comic")
	}
	return &comic, nil
}

func (r *ComicRepository) Create(ctx context.Context, comic *models.Comic) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Condition").Create(comic).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return apperror.InvalidRequest("a comic with this ISBN already exists")
		}
		return apperror.Internal(err, "create comic")
	}
	return nil
}

func (r *ComicRepository) Save(ctx context.Context, comic *models.Comic) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Condition").Save(comic).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return apperror.InvalidRequest("a comic with this ISBN already exists")
		}
		return apperror.Internal(err, "save comic")
	}
	return nil
}

// SetRedacted flips the redaction flag.
func (r *ComicRepository) SetRedacted(ctx context.Context, id uint, redacted bool) (*models.Comic, error) {
	res := r.db.WithContext(ctx).Model(&models.Comic{}).Where("id = ?", id).Update("redacted", redacted)
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, "redact comic")
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFoundf("comic %d not found", id)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a redacted comic together with every line item that
// references it, in one transaction. Unredacted comics are refused.
func (r *ComicRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comic models.Comic
		err := tx.Select("id", "redacted").Take(&comic, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("comic %d not found", id)
		}
		if err != nil {
			return err
		}
		if !comic.Redacted {
			return apperror.InvalidRequest("comic must be redacted before it can be deleted")
		}

		if err := r.lines.DeleteByComic(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Comic{}, id).Error
	})

	var appErr *apperror.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	default:
		return apperror.Internal(err, "delete comic")
	}
}

func (r *ComicRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, apperror.Internal(err, "list categories")
	}
	return out, nil
}

func (r *ComicRepository) Conditions(ctx context.Context) ([]models.Condition, error) {
	var out []models.Condition
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, apperror.Internal(err, "list conditions")
	}
	return out, nil
}

// CategoryExists and ConditionExists validate foreign keys on write; SQLite
// does not enforce them by default.
func (r *ComicRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Category{}, id)
}

func (r *ComicRepository) ConditionExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Condition{}, id)
}

func (r *ComicRepository) exists(ctx context.Context, model any, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperror.Internal(err, "lookup")
	}
	return count > 0, nil
}
