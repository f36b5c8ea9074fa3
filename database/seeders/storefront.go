package seeders

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/pkg/auth"
)

func init() {
	Register("categories", SeedCategories)
	Register("conditions", SeedConditions)
	Register("admin", SeedAdmin)
	Register("comics", SeedComics)
}

func SeedCategories(db *gorm.DB) error {
	rows := []models.Category{
		{Name: "Superhero", Description: "Capes, cowls and secret identities"},
		{Name: "Manga", Description: "Japanese comics"},
		{Name: "Graphic Novel", Description: "Long-form, self-contained stories"},
		{Name: "Indie", Description: "Independent publishers"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func SeedConditions(db *gorm.DB) error {
	rows := []models.Condition{
		{Name: "Mint", Description: "Perfect, as printed"},
		{Name: "Near Mint", Description: "Minor handling wear"},
		{Name: "Very Fine", Description: "Light wear, flat and glossy"},
		{Name: "Good", Description: "Read copy, complete"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// SeedAdmin creates the ADMIN account from SEED_ADMIN_EMAIL /
// SEED_ADMIN_PASSWORD when it does not exist yet.
func SeedAdmin(db *gorm.DB) error {
	email := config.Get("SEED_ADMIN_EMAIL", "admin@bazinga.local")
	password := config.Get("SEED_ADMIN_PASSWORD", "admin-password")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return db.Create(&models.User{
		Username:         "admin",
		Email:            email,
		Password:         hash,
		Role:             models.RoleAdmin,
		SubscriptionType: models.TierFree,
	}).Error
}

func SeedComics(db *gorm.DB) error {
	var superhero, manga models.Category
	if err := db.Where("name = ?", "Superhero").First(&superhero).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "Manga").First(&manga).Error; err != nil {
		return err
	}
	var mint models.Condition
	if err := db.Where("name = ?", "Mint").First(&mint).Error; err != nil {
		return err
	}

	comic := func(isbn, title, author, price string, ct models.ComicType, cat *models.Category) models.Comic {
		return models.Comic{
			Title:       title,
			Author:      author,
			ISBN:        &isbn,
			Price:       decimal.NewNullDecimal(decimal.RequireFromString(price)),
			ComicType:   ct,
			CategoryID:  &cat.ID,
			ConditionID: &mint.ID,
		}
	}

	rows := []models.Comic{
		comic("978-0-930289-23-2", "Watchmen", "Alan Moore", "24.99", models.ComicPhysicalCopy, &superhero),
		comic("978-1-56389-342-3", "The Dark Knight Returns", "Frank Miller", "19.99", models.ComicPhysicalCopy, &superhero),
		comic("978-1-4215-2849-4", "Akira Vol. 1", "Katsuhiro Otomo", "29.99", models.ComicPhysicalCopy, &manga),
		comic("978-1-9747-0000-1", "Chainsaw Man Vol. 1", "Tatsuki Fujimoto", "9.99", models.ComicOnlyDigital, &manga),
	}
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "isbn"}}, DoNothing: true}).Create(&rows).Error
}
