package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/database/migrations"
	"github.com/bazinga/storefront/pkg/testkit"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testkit.OpenDB(t, migrations.Apply)
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username:         name,
		Email:            name + "@example.com",
		Password:         "x",
		Role:             models.RoleUser,
		SubscriptionType: models.TierFree,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createComic(t *testing.T, db *gorm.DB, title, price string) *models.Comic {
	t.Helper()
	c := &models.Comic{Title: title, ComicType: models.ComicPhysicalCopy}
	if price != "" {
		c.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func countLines(t *testing.T, db *gorm.DB, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.LineItem{}).Where(where, args...).Count(&n).Error)
	return n
}

var ctx = context.Background()

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func label(prefix string, i int) string { return fmt.Sprintf("%s-%d", prefix, i) }
