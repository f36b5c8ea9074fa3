package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/cache"
	"github.com/bazinga/storefront/pkg/storage"
)

func newCatalog(t *testing.T, e *env) (*services.CatalogService, *storage.Local) {
	t.Helper()
	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage")
	require.NoError(t, err)
	return services.NewCatalogService(e.comics, nil, disk, time.Minute), disk
}

func TestCatalogCreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	catalog, _ := newCatalog(t, e)

	cat := &models.Category{Name: "Superhero"}
	require.NoError(t, e.db.Create(cat).Error)

	price := decimal.RequireFromString("12.345")
	isbn := " 978-1401245252 "
	comic, err := catalog.Create(ctx, services.ComicInput{
		Title:      "Batman: Year One",
		ISBN:       &isbn,
		Price:      &price,
		ComicType:  "only_digital",
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ComicOnlyDigital, comic.ComicType)
	require.NotNil(t, comic.ISBN)
	assert.Equal(t, "978-1401245252", *comic.ISBN)
	assertMoney(t, "12.35", comic.Price.Decimal)
	require.NotNil(t, comic.Category)
	assert.Equal(t, "Superhero", comic.Category.Name)

	updated, err := catalog.Update(ctx, comic.ID, services.ComicInput{Title: "Batman: Year One (Deluxe)"})
	require.NoError(t, err)
	assert.Equal(t, "Batman: Year One (Deluxe)", updated.Title)
	assert.Equal(t, models.ComicPhysicalCopy, updated.ComicType)
	assert.False(t, updated.Price.Valid)
	assert.Nil(t, updated.CategoryID)
}

func TestCatalogCreateRejects(t *testing.T) {
	e := newEnv(t)
	catalog, _ := newCatalog(t, e)

	missing := uint(77)
	negative := decimal.RequireFromString("-1")
	isbn := "111"

	cases := map[string]services.ComicInput{
		"unknown category":  {Title: "X", CategoryID: &missing},
		"unknown condition": {Title: "X", ConditionID: &missing},
		"negative price":    {Title: "X", Price: &negative},
		"unknown type":      {Title: "X", ComicType: "HOLOGRAM"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Create(ctx, in)
			assertCode(t, err, apperror.CodeInvalidRequest)
		})
	}

	_, err := catalog.Create(ctx, services.ComicInput{Title: "First", ISBN: &isbn})
	require.NoError(t, err)
	_, err = catalog.Create(ctx, services.ComicInput{Title: "Second", ISBN: &isbn})
	assertCode(t, err, apperror.CodeInvalidRequest)
}

func TestCatalogRedactionHidesComic(t *testing.T) {
	e := newEnv(t)
	catalog, _ := newCatalog(t, e)
	visible := e.comic(t, "Visible", "1.00", models.ComicPhysicalCopy)
	hidden := e.comic(t, "Hidden", "1.00", models.ComicPhysicalCopy)

	_, err := catalog.SetRedacted(ctx, hidden.ID, true)
	require.NoError(t, err)

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)

	_, err = catalog.Get(ctx, hidden.ID)
	assertCode(t, err, apperror.CodeNotFound)

	all, err := catalog.AdminList(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogDeleteCascades(t *testing.T) {
	e := newEnv(t)
	catalog, _ := newCatalog(t, e)
	comic := e.comic(t, "Doomed", "3.00", models.ComicPhysicalCopy)
	ada := e.user(t, "ada", models.TierFree, nil)
	bob := e.user(t, "bob", models.TierFree, nil)

	_, err := e.cart.Add(ctx, ada, services.CartAddInput{ComicID: comic.ID})
	require.NoError(t, err)
	_, err = e.wishlist.Add(ctx, bob, comic.ID)
	require.NoError(t, err)

	err = catalog.Delete(ctx, comic.ID)
	assertCode(t, err, apperror.CodeInvalidRequest)

	_, err = catalog.SetRedacted(ctx, comic.ID, true)
	require.NoError(t, err)
	require.NoError(t, catalog.Delete(ctx, comic.ID))

	var n int64
	require.NoError(t, e.db.Model(&models.LineItem{}).Where("comic_id = ?", comic.ID).Count(&n).Error)
	assert.Zero(t, n)

	err = catalog.Delete(ctx, comic.ID)
	assertCode(t, err, apperror.CodeNotFound)
}

func TestCatalogUploadCover(t *testing.T) {
	e := newEnv(t)
	catalog, disk := newCatalog(t, e)
	comic := e.comic(t, "Cover Story", "3.00", models.ComicPhysicalCopy)

	got, err := catalog.UploadCover(ctx, comic.ID, "front.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.ImageURL, "http://cdn.test/storage/covers/"), got.ImageURL)
	assert.True(t, strings.HasSuffix(got.ImageURL, ".png"))

	key := strings.TrimPrefix(got.ImageURL, "http://cdn.test/storage/")
	data, err := disk.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = catalog.UploadCover(ctx, comic.ID, "notes.txt", "text/plain", strings.NewReader("x"))
	assertCode(t, err, apperror.CodeInvalidRequest)

	_, err = catalog.UploadCover(ctx, 999, "a.png", "image/png", strings.NewReader("x"))
	assertCode(t, err, apperror.CodeNotFound)
}

func TestCatalogWarm(t *testing.T) {
	e := newEnv(t)
	e.comic(t, "Saga", "4.99", models.ComicPhysicalCopy)

	catalog, _ := newCatalog(t, e)
	assert.NoError(t, catalog.Warm(ctx), "no cache configured")

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	down := cache.New(rdb, "test:")
	defer down.Close()

	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage")
	require.NoError(t, err)
	assert.Error(t, services.NewCatalogService(e.comics, down, disk, time.Minute).Warm(ctx))

	comics, err := services.NewCatalogService(e.comics, down, disk, time.Minute).List(ctx)
	require.NoError(t, err, "reads fall through to the store")
	assert.Len(t, comics, 1)
}
