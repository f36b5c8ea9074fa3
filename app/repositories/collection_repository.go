package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/database"
	"github.com/bazinga/storefront/pkg/metrics"
)

// getOrCreateAttempts bounds the select/insert loop when concurrent first
// accesses race on the (kind, owner_id) unique index.
const getOrCreateAttempts = 3

// ItemRef identifies what to add to a collection. Variant and UnitPrice are
// ignored for membership kinds.
type ItemRef struct {
	ComicID   uint
	Variant   models.PurchaseMode
	UnitPrice decimal.Decimal
}

// LineKey addresses a line either by id or by (comic, variant).
type LineKey struct {
	ID      uint
	ComicID uint
	Variant string
}

// CollectionRepository manages the per-owner singleton collections and
// their line items. Concurrency is resolved by the unique indexes on
// collections(kind, owner_id) and line_items(collection_id, comic_id,
// variant) together with ON CONFLICT upserts.
type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// GetOrCreate returns the owner's collection of kind, creating it on first
// access. Concurrent callers converge on the same row.
func (r *CollectionRepository) GetOrCreate(ctx context.Context, kind models.CollectionKind, ownerID uint) (*models.Collection, error) {
	db := r.db.WithContext(ctx)

	for attempt := 1; attempt <= getOrCreateAttempts; attempt++ {
		var col models.Collection
		err := db.Where("kind = ? AND owner_id = ?", kind, ownerID).Take(&col).Error
		if err == nil {
			return &col, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal(err, "load collection")
		}

		col = models.Collection{Kind: kind, OwnerID: ownerID}
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&col).Error
		switch {
		case err == nil && col.ID != 0:
			return &col, nil
		case err == nil || database.IsDuplicateKey(err):
			// Another request created it between our select and insert.
			metrics.RecordUpsertRetry(string(kind))
		default:
			return nil, apperror.Internal(err, "create collection")
		}
	}

	return nil, apperror.Internal(errors.New("unique-key race not resolved"), "load collection")
}

// UpsertLineItem applies delta to the line for ref.
//
// A positive delta on a cart is one atomic upsert: a new line gets quantity
// delta, an existing one is incremented and re-priced at ref.UnitPrice.
// Membership kinds ignore quantity and price; adding twice leaves one row.
// A negative delta decrements an existing cart line inside a transaction and
// deletes it when the quantity drops to zero or below, returning nil.
func (r *CollectionRepository) UpsertLineItem(ctx context.Context, col *models.Collection, ref ItemRef, delta int) (*models.LineItem, error) {
	if delta == 0 {
		return nil, apperror.InvalidRequest("quantity must not be zero")
	}
	if !col.Kind.HasQuantity() {
		if delta < 0 {
			return nil, apperror.InvalidRequest("quantity must be positive")
		}
		return r.addMember(ctx, col, ref.ComicID)
	}
	if delta < 0 {
		return r.decrement(ctx, col, ref, -delta)
	}

	item := models.LineItem{
		CollectionID: col.ID,
		ComicID:      ref.ComicID,
		Variant:      string(ref.Variant),
		Quantity:     delta,
		UnitPrice:    ref.UnitPrice,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: lineKeyColumns,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("line_items.quantity + ?", delta),
			"unit_price": ref.UnitPrice,
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, apperror.Internal(err, "upsert line item")
	}

	metrics.RecordCollectionMutation(string(col.Kind), "add")
	return r.findByKey(ctx, r.db, col.ID, ref.ComicID, string(ref.Variant))
}

var lineKeyColumns = []clause.Column{{Name: "collection_id"}, {Name: "comic_id"}, {Name: "variant"}}

func (r *CollectionRepository) addMember(ctx context.Context, col *models.Collection, comicID uint) (*models.LineItem, error) {
	item := models.LineItem{CollectionID: col.ID, ComicID: comicID, Variant: "", Quantity: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   lineKeyColumns,
		DoNothing: true,
	}).Create(&item).Error
	if err != nil {
		return nil, apperror.Internal(err, "add collection member")
	}

	metrics.RecordCollectionMutation(string(col.Kind), "add")
	return r.findByKey(ctx, r.db, col.ID, comicID, "")
}

func (r *CollectionRepository) decrement(ctx context.Context, col *models.Collection, ref ItemRef, by int) (*models.LineItem, error) {
	var out *models.LineItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LineItem{}).
			Where("collection_id = ? AND comic_id = ? AND variant = ?", col.ID, ref.ComicID, string(ref.Variant)).
			Update("quantity", gorm.Expr("quantity - ?", by))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.InvalidRequest("item is not in the cart")
		}

		if err := tx.
			Where("collection_id = ? AND comic_id = ? AND variant = ? AND quantity <= 0", col.ID, ref.ComicID, string(ref.Variant)).
			Delete(&models.LineItem{}).Error; err != nil {
			return err
		}

		item, err := r.findByKey(ctx, tx, col.ID, ref.ComicID, string(ref.Variant))
		if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err, "decrement line item")
	}

	metrics.RecordCollectionMutation(string(col.Kind), "decrement")
	return out, nil
}

// Line loads one line of col with its comic. A line that belongs to
// another collection is reported with the same message as a missing one.
func (r *CollectionRepository) Line(ctx context.Context, col *models.Collection, lineID uint) (*models.LineItem, error) {
	notFound := fmt.Sprintf("cart item %d not found", lineID)

	var item models.LineItem
	err := r.db.WithContext(ctx).Preload("Comic").Take(&item, lineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(notFound)
	}
	if err != nil {
		return nil, apperror.Internal(err, "load line item")
	}
	if item.CollectionID != col.ID {
		return nil, apperror.OwnershipMismatch(notFound)
	}
	return &item, nil
}

// SetQuantity overwrites the quantity of a line in col. A quantity of zero
// or less removes the line and returns nil. The unit price is only rewritten
// when reprice is non-nil.
func (r *CollectionRepository) SetQuantity(ctx context.Context, col *models.Collection, lineID uint, qty int, reprice *decimal.Decimal) (*models.LineItem, error) {
	db := r.db.WithContext(ctx)

	if _, err := r.Line(ctx, col, lineID); err != nil {
		return nil, err
	}

	if qty <= 0 {
		if err := db.Where("id = ? AND collection_id = ?", lineID, col.ID).Delete(&models.LineItem{}).Error; err != nil {
			return nil, apperror.Internal(err, "delete line item")
		}
		metrics.RecordCollectionMutation(string(col.Kind), "remove")
		return nil, nil
	}

	updates := map[string]interface{}{"quantity": qty}
	if reprice != nil {
		updates["unit_price"] = *reprice
	}
	if err := db.Model(&models.LineItem{}).
		Where("id = ? AND collection_id = ?", lineID, col.ID).
		Updates(updates).Error; err != nil {
		return nil, apperror.Internal(err, "update line item")
	}

	metrics.RecordCollectionMutation(string(col.Kind), "set")
	return r.findByID(ctx, col.ID, lineID)
}

// RemoveLineItem deletes the addressed line if present. Absence is not an
// error.
func (r *CollectionRepository) RemoveLineItem(ctx context.Context, col *models.Collection, key LineKey) error {
	q := r.db.WithContext(ctx).Where("collection_id = ?", col.ID)
	if key.ID != 0 {
		q = q.Where("id = ?", key.ID)
	} else {
		q = q.Where("comic_id = ? AND variant = ?", key.ComicID, key.Variant)
	}

	if err := q.Delete(&models.LineItem{}).Error; err != nil {
		return apperror.Internal(err, "remove line item")
	}
	metrics.RecordCollectionMutation(string(col.Kind), "remove")
	return nil
}

// Clear empties col.
func (r *CollectionRepository) Clear(ctx context.Context, col *models.Collection) error {
	if err := r.db.WithContext(ctx).Where("collection_id = ?", col.ID).Delete(&models.LineItem{}).Error; err != nil {
		return apperror.Internal(err, "clear collection")
	}
	metrics.RecordCollectionMutation(string(col.Kind), "clear")
	return nil
}

// List returns the lines of col with their comics, ordered by id.
func (r *CollectionRepository) List(ctx context.Context, col *models.Collection) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.WithContext(ctx).
		Preload("Comic").
		Where("collection_id = ?", col.ID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, apperror.Internal(err, "list collection")
	}
	return items, nil
}

// DeleteByComic removes every line referencing comicID across all owners.
// It runs on the caller's transaction.
func (r *CollectionRepository) DeleteByComic(tx *gorm.DB, comicID uint) error {
	return tx.Where("comic_id = ?", comicID).Delete(&models.LineItem{}).Error
}

func (r *CollectionRepository) findByID(ctx context.Context, collectionID, lineID uint) (*models.LineItem, error) {
	var item models.LineItem
	err := r.db.WithContext(ctx).Preload("Comic").
		Where("id = ? AND collection_id = ?", lineID, collectionID).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFoundf("cart item %d not found", lineID)
	}
	if err != nil {
		return nil, apperror.Internal(err, "load line item")
	}
	return &item, nil
}

func (r *CollectionRepository) findByKey(ctx context.Context, db *gorm.DB, collectionID, comicID uint, variant string) (*models.LineItem, error) {
	var item models.LineItem
	err := db.WithContext(ctx).Preload("Comic").
		Where("collection_id = ? AND comic_id = ? AND variant = ?", collectionID, comicID, variant).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("line item not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "load line item")
	}
	return &item, nil
}
