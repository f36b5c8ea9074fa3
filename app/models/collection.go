package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection is the per-owner singleton cart, wishlist or library.
type Collection struct {
	ID        uint           `gorm:"primaryKey"`
	Kind      CollectionKind `gorm:"size:20;not null;uniqueIndex:idx_collections_kind_owner,priority:1"`
	OwnerID   uint           `gorm:"not null;uniqueIndex:idx_collections_kind_owner,priority:2"`
	CreatedAt time.Time
}

// LineItem is one comic in a collection. Variant carries the purchase mode
// for carts and is empty for membership kinds.
type LineItem struct {
	ID           uint            `gorm:"primaryKey"`
	CollectionID uint            `gorm:"not null;uniqueIndex:idx_line_items_key,priority:1"`
	ComicID      uint            `gorm:"not null;index;uniqueIndex:idx_line_items_key,priority:2"`
	Variant      string          `gorm:"size:20;not null;default:'';uniqueIndex:idx_line_items_key,priority:3"`
	Quantity     int             `gorm:"not null;default:1"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	AddedAt      time.Time       `gorm:"autoCreateTime"`
	Comic        *Comic          `gorm:"foreignKey:ComicID"`
}

// LineTotal is quantity × unit price.
func (li *LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
