package migrations

import (
	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000002_create_collection_tables", &CreateCollectionTables{})
	migration.Register("20260301000003_create_news_posts_table", &CreateNewsPostsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0002: categories, conditions, comics --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Condition{}, &models.Comic{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Comic{}, &models.Condition{}, &models.Category{})
}

// -------- 0003: collections, line items --------

type CreateCollectionTables struct{}

func (m *CreateCollectionTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Collection{}, &models.LineItem{})
}

func (m *CreateCollectionTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.LineItem{}, &models.Collection{})
}

// -------- 0004: news --------

type CreateNewsPostsTable struct{}

func (m *CreateNewsPostsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.NewsPost{})
}

func (m *CreateNewsPostsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.NewsPost{})
}
