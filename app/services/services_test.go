package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/database/migrations"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/auth"
	"github.com/bazinga/storefront/pkg/testkit"
)

var (
	ctx   = context.Background()
	today = time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)
)

func clock() time.Time { return today }

// env wires every service against one fresh database.
type env struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	comics   *repositories.ComicRepository
	auth     *services.AuthService
	subs     *services.SubscriptionService
	cart     *services.CartService
	wishlist *services.WishlistService
	library  *services.LibraryService
	news     *services.NewsService
	admin    *services.UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testkit.OpenDB(t, migrations.Apply)
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	users := repositories.NewUserRepository(db)
	lines := repositories.NewCollectionRepository(db)
	comics := repositories.NewComicRepository(db, lines)

	return &env{
		db:       db,
		users:    users,
		comics:   comics,
		auth:     services.NewAuthService(users, tokens),
		subs:     services.NewSubscriptionService(users, clock),
		cart:     services.NewCartService(lines, comics),
		wishlist: services.NewWishlistService(lines, comics),
		library:  services.NewLibraryService(lines, comics),
		news:     services.NewNewsService(repositories.NewNewsRepository(db), time.Hour, clock),
		admin:    services.NewUserService(users),
	}
}

func (e *env) user(t *testing.T, name string, tier models.Tier, expires *time.Time) *models.User {
	t.Helper()
	u := &models.User{
		Username:               name,
		Email:                  name + "@example.com",
		Password:               "x",
		Role:                   models.RoleUser,
		SubscriptionType:       tier,
		SubscriptionExpiration: expires,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *env) comic(t *testing.T, title, price string, kind models.ComicType) *models.Comic {
	t.Helper()
	c := &models.Comic{Title: title, ComicType: kind}
	if price != "" {
		c.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func assertCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperror.CodeOf(err), err.Error())
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intp(n int) *int { return &n }
