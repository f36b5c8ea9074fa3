package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/pricing"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/logger"
)

// CartAddInput is the body of POST /api/cart. A nil quantity adds one; a
// negative quantity decrements an existing line.
type CartAddInput struct {
	ComicID      uint   `json:"comicId"      validate:"required,gt=0"`
	Quantity     *int   `json:"quantity"`
	PurchaseType string `json:"purchaseType"`
}

// CartUpdateInput is the body of PUT /api/cart. Reprice recomputes the unit
// price with the caller's current tier.
type CartUpdateInput struct {
	CartItemID uint `json:"cartItemId" validate:"required,gt=0"`
	Quantity   int  `json:"quantity"`
	Reprice    bool `json:"reprice"`
}

// ComicRef is the body of the wishlist and library add endpoints.
type ComicRef struct {
	ComicID uint `json:"comicId" validate:"required,gt=0"`
}

// collections is shared by the per-kind services. Every collection is keyed
// on the identity passed in by the caller.
type collections struct {
	kind   models.CollectionKind
	repo   *repositories.CollectionRepository
	comics *repositories.ComicRepository
}

func (c collections) of(ctx context.Context, user *models.User) (*models.Collection, error) {
	return c.repo.GetOrCreate(ctx, c.kind, user.ID)
}

func (c collections) list(ctx context.Context, user *models.User) ([]models.LineItem, error) {
	col, err := c.of(ctx, user)
	if err != nil {
		return nil, err
	}
	return c.repo.List(ctx, col)
}

// visibleComic loads a comic that can still be collected.
func (c collections) visibleComic(ctx context.Context, id uint) (*models.Comic, error) {
	comic, err := c.comics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comic.Redacted {
		return nil, apperror.NotFoundf("comic %d not found", id)
	}
	return comic, nil
}

type CartService struct {
	collections
}

func NewCartService(repo *repositories.CollectionRepository, comics *repositories.ComicRepository) *CartService {
	return &CartService{collections{kind: models.KindCart, repo: repo, comics: comics}}
}

func (s *CartService) List(ctx context.Context, user *models.User) ([]models.LineItem, error) {
	return s.list(ctx, user)
}

// Add prices the comic for the caller and merges it into the cart.
func (s *CartService) Add(ctx context.Context, user *models.User, in CartAddInput) ([]models.LineItem, error) {
	delta := 1
	if in.Quantity != nil {
		delta = *in.Quantity
	}
	if delta == 0 {
		return nil, apperror.InvalidRequest("quantity must not be zero")
	}

	mode, err := models.ParsePurchaseMode(in.PurchaseType)
	if err != nil {
		return nil, apperror.InvalidRequestf("invalid purchase type %q", in.PurchaseType)
	}

	comic, err := s.visibleComic(ctx, in.ComicID)
	if err != nil {
		return nil, err
	}
	if comic.ComicType == models.ComicOnlyDigital {
		mode = models.PurchaseDigital
	}

	col, err := s.of(ctx, user)
	if err != nil {
		return nil, err
	}

	ref := repositories.ItemRef{
		ComicID:   comic.ID,
		Variant:   mode,
		UnitPrice: s.price(user, comic, mode),
	}
	if _, err := s.repo.UpsertLineItem(ctx, col, ref, delta); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Debug("cart updated", "user_id", user.ID, "comic_id", comic.ID, "variant", mode, "delta", delta)
	return s.repo.List(ctx, col)
}

// Update overwrites a line's quantity. Zero or less removes the line.
func (s *CartService) Update(ctx context.Context, user *models.User, in CartUpdateInput) ([]models.LineItem, error) {
	col, err := s.of(ctx, user)
	if err != nil {
		return nil, err
	}

	var reprice *decimal.Decimal
	if in.Reprice && in.Quantity > 0 {
		line, err := s.repo.Line(ctx, col, in.CartItemID)
		if err != nil {
			return nil, err
		}
		p := s.price(user, line.Comic, models.PurchaseMode(line.Variant))
		reprice = &p
	}

	if _, err := s.repo.SetQuantity(ctx, col, in.CartItemID, in.Quantity, reprice); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, col)
}

// Remove deletes one line by id. Removing an absent line is not an error.
func (s *CartService) Remove(ctx context.Context, user *models.User, lineID uint) ([]models.LineItem, error) {
	col, err := s.of(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLineItem(ctx, col, repositories.LineKey{ID: lineID}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, col)
}

func (s *CartService) Clear(ctx context.Context, user *models.User) ([]models.LineItem, error) {
	col, err := s.of(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, col); err != nil {
		return nil, err
	}
	return []models.LineItem{}, nil
}

func (s *CartService) price(user *models.User, comic *models.Comic, mode models.PurchaseMode) decimal.Decimal {
	return pricing.UnitPrice(comic.BasePrice(), mode, user.PricingTier())
}

type WishlistService struct {
	collections
}

func NewWishlistService(repo *repositories.CollectionRepository, comics *repositories.ComicRepository) *WishlistService {
	return &WishlistService{collections{kind: models.KindWishlist, repo: repo, comics: comics}}
}

func (s *WishlistService) List(ctx context.Context, user *models.User) ([]models.LineItem, error) {
	return s.list(ctx, user)
}

// Add is idempotent: a comic is on the wishlist at most once.
func (s *WishlistService) Add(ctx context.Context, user *models.User, comicID uint) ([]models.LineItem, error) {
	return s.add(ctx, user, comicID)
}

func (s *WishlistService) Remove(ctx context.Context, user *models.User, comicID uint) ([]models.LineItem, error) {
	col, err := s.of(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLineItem(ctx, col, repositories.LineKey{ComicID: comicID}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, col)
}

type LibraryService struct {
	collections
}

func NewLibraryService(repo *repositories.CollectionRepository, comics *repositories.ComicRepository) *LibraryService {
	return &LibraryService{collections{kind: models.KindLibrary, repo: repo, comics: comics}}
}

func (s *LibraryService) List(ctx context.Context, user *models.User) ([]models.LineItem, error) {
	return s.list(ctx, user)
}

func (s *LibraryService) Add(ctx context.Context, user *models.User, comicID uint) ([]models.LineItem, error) {
	return s.add(ctx, user, comicID)
}

func (c collections) add(ctx context.Context, user *models.User, comicID uint) ([]models.LineItem, error) {
	comic, err := c.visibleComic(ctx, comicID)
	if err != nil {
		return nil, err
	}
	col, err := c.of(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := c.repo.UpsertLineItem(ctx, col, repositories.ItemRef{ComicID: comic.ID}, 1); err != nil {
		return nil, err
	}
	return c.repo.List(ctx, col)
}
