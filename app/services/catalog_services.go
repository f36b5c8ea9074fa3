package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/cache"
	"github.com/bazinga/storefront/pkg/logger"
	"github.com/bazinga/storefront/pkg/storage"
)

const catalogCacheKey = "comics:list"

var coverExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// ComicInput is the body of the comic create and update endpoints. Update
// replaces every field.
type ComicInput struct {
	Title         string           `json:"title"         validate:"required,max=255"`
	Author        string           `json:"author"        validate:"max=255"`
	ISBN          *string          `json:"isbn"          validate:"omitempty,max=32"`
	Description   string           `json:"description"`
	MainCharacter string           `json:"mainCharacter" validate:"max=255"`
	Series        string           `json:"series"        validate:"max=255"`
	PublishedYear *int             `json:"publishedYear" validate:"omitempty,gte=0,lte=9999"`
	Price         *decimal.Decimal `json:"price"`
	ImageURL      string           `json:"imageUrl"      validate:"omitempty,url,max=1024"`
	ComicType     string           `json:"comicType"`
	CategoryID    *uint            `json:"categoryId"`
	ConditionID   *uint            `json:"conditionId"`
}

// CatalogService serves the comic catalog. The public listing is cached
// when a cache is configured and dropped on every write.
type CatalogService struct {
	comics *repositories.ComicRepository
	cache  *cache.Cache
	disk   storage.Disk
	ttl    time.Duration
}

func NewCatalogService(comics *repositories.ComicRepository, c *cache.Cache, disk storage.Disk, ttl time.Duration) *CatalogService {
	return &CatalogService{comics: comics, cache: c, disk: disk, ttl: ttl}
}

// List returns the comics that are not redacted.
func (s *CatalogService) List(ctx context.Context) ([]models.Comic, error) {
	var cached []models.Comic
	if s.cache.Get(ctx, catalogCacheKey, &cached) {
		return cached, nil
	}

	comics, err := s.comics.List(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, catalogCacheKey, comics, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache write failed", "error", err)
	}
	return comics, nil
}

// Warm rebuilds the cached public listing ahead of expiry so readers do not
// pay for the miss.
func (s *CatalogService) Warm(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	comics, err := s.comics.List(ctx, false)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, catalogCacheKey, comics, s.ttl)
}

// AdminList includes redacted comics.
func (s *CatalogService) AdminList(ctx context.Context) ([]models.Comic, error) {
	return s.comics.List(ctx, true)
}

// Get hides redacted comics from the public.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Comic, error) {
	comic, err := s.comics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comic.Redacted {
		return nil, apperror.NotFoundf("comic %d not found", id)
	}
	return comic, nil
}

func (s *CatalogService) Create(ctx context.Context, in ComicInput) (*models.Comic, error) {
	comic := &models.Comic{}
	if err := s.apply(ctx, comic, in); err != nil {
		return nil, err
	}
	if err := s.comics.Create(ctx, comic); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("comic created", "comic_id", comic.ID)
	return s.comics.FindByID(ctx, comic.ID)
}

func (s *CatalogService) Update(ctx context.Context, id uint, in ComicInput) (*models.Comic, error) {
	comic, err := s.comics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, comic, in); err != nil {
		return nil, err
	}
	if err := s.comics.Save(ctx, comic); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.comics.FindByID(ctx, id)
}

func (s *CatalogService) SetRedacted(ctx context.Context, id uint, redacted bool) (*models.Comic, error) {
	comic, err := s.comics.SetRedacted(ctx, id, redacted)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("comic redaction changed", "comic_id", id, "redacted", redacted)
	return comic, nil
}

// Delete removes a redacted comic and every cart, wishlist and library line
// that references it.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.comics.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("comic deleted", "comic_id", id)
	return nil
}

// UploadCover stores an image on the configured disk and points the comic's
// image URL at it.
func (s *CatalogService) UploadCover(ctx context.Context, id uint, filename, contentType string, r io.Reader) (*models.Comic, error) {
	if s.disk == nil {
		return nil, apperror.Internal(fmt.Errorf("no storage disk configured"), "upload cover")
	}

	ext := strings.ToLower(path.Ext(filename))
	if !coverExtensions[ext] {
		return nil, apperror.InvalidRequestf("unsupported cover image type %q", ext)
	}

	comic, err := s.comics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%d/%s%s", id, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return nil, apperror.Internal(err, "store cover")
	}

	comic.ImageURL = s.disk.URL(key)
	if err := s.comics.Save(ctx, comic); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("comic cover stored", "comic_id", id, "key", key)
	return comic, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.comics.Categories(ctx)
}

func (s *CatalogService) Conditions(ctx context.Context) ([]models.Condition, error) {
	return s.comics.Conditions(ctx)
}

func (s *CatalogService) apply(ctx context.Context, comic *models.Comic, in ComicInput) error {
	kind, err := models.ParseComicType(in.ComicType)
	if err != nil {
		return apperror.InvalidRequestf("invalid comic type %q", in.ComicType)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return apperror.InvalidRequest("price must not be negative")
	}
	if in.CategoryID != nil {
		if ok, err := s.comics.CategoryExists(ctx, *in.CategoryID); err != nil {
			return err
		} else if !ok {
			return apperror.InvalidRequestf("category %d does not exist", *in.CategoryID)
		}
	}
	if in.ConditionID != nil {
		if ok, err := s.comics.ConditionExists(ctx, *in.ConditionID); err != nil {
			return err
		} else if !ok {
			return apperror.InvalidRequestf("condition %d does not exist", *in.ConditionID)
		}
	}

	isbn := in.ISBN
	if isbn != nil {
		if trimmed := strings.TrimSpace(*isbn); trimmed == "" {
			isbn = nil
		} else {
			isbn = &trimmed
		}
	}

	comic.Title = strings.TrimSpace(in.Title)
	comic.Author = in.Author
	comic.ISBN = isbn
	comic.Description = in.Description
	comic.MainCharacter = in.MainCharacter
	comic.Series = in.Series
	comic.PublishedYear = in.PublishedYear
	comic.Price = decimal.NullDecimal{}
	if in.Price != nil {
		comic.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}
	comic.ImageURL = in.ImageURL
	comic.ComicType = kind
	comic.CategoryID = in.CategoryID
	comic.ConditionID = in.ConditionID
	comic.Category = nil
	comic.Condition = nil
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Forget(ctx, catalogCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
