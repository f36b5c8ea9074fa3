// Package migrations holds the storefront schema. Each migration registers
// itself from init(); importing this package makes them known to the
// runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/bazinga/storefront/pkg/migration"
)

// Apply runs every pending migration against db. Tests and the serve
// command use it to bring a fresh database up to date.
func Apply(db *gorm.DB) error {
	_, err := migration.New(db).Run()
	return err
}
