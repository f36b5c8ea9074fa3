package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
}

type Condition struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
}

// Comic is a catalog entry. A nil price prices as zero. Redacted comics are
// hidden from the public catalog and can no longer be added to carts.
type Comic struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Title         string              `gorm:"size:255;not null" json:"title"`
	Author        string              `gorm:"size:255" json:"author"`
	ISBN          *string             `gorm:"uniqueIndex;size:32" json:"isbn,omitempty"`
	Description   string              `gorm:"type:text" json:"description,omitempty"`
	MainCharacter string              `gorm:"size:255" json:"mainCharacter,omitempty"`
	Series        string              `gorm:"size:255" json:"series,omitempty"`
	PublishedYear *int                `json:"publishedYear,omitempty"`
	Price         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	ImageURL      string              `gorm:"size:1024" json:"imageUrl,omitempty"`
	ComicType     ComicType           `gorm:"size:20;not null;default:PHYSICAL_COPY" json:"comicType"`
	Redacted      bool                `gorm:"not null;default:false;index" json:"redacted"`
	CategoryID    *uint               `gorm:"index" json:"categoryId,omitempty"`
	Category      *Category           `json:"category,omitempty"`
	ConditionID   *uint               `gorm:"index" json:"conditionId,omitempty"`
	Condition     *Condition          `json:"condition,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// BasePrice returns the price or nil when unset.
func (c *Comic) BasePrice() *decimal.Decimal {
	if c == nil || !c.Price.Valid {
		return nil
	}
	p := c.Price.Decimal
	return &p
}

// NewsPost is visible until ExpiresAt.
type NewsPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
}
