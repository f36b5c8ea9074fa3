package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
)

func TestActiveNewsNewestFirst(t *testing.T) {
	db := newDB(t)
	news := repositories.NewNewsRepository(db)
	author := createUser(t, db, "editor")

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.NewsPost{
		{Title: "old", Content: "c", AuthorID: author.ID, CreatedAt: now.Add(-40 * 24 * time.Hour), ExpiresAt: now.Add(-10 * 24 * time.Hour)},
		{Title: "older", Content: "c", AuthorID: author.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(24 * time.Hour)},
		{Title: "newest", Content: "c", AuthorID: author.ID, CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(24 * time.Hour)},
	}
	for i := range posts {
		require.NoError(t, news.Create(ctx, &posts[i]))
	}

	active, err := news.Active(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "newest", active[0].Title)
	assert.Equal(t, "older", active[1].Title)
	require.NotNil(t, active[0].Author)
	assert.Equal(t, "editor", active[0].Author.Username)
}
