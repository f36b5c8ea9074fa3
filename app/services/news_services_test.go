package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/app/services"
)

func TestNewsExpires(t *testing.T) {
	e := newEnv(t)
	editor := e.user(t, "editor", models.TierFree, nil)

	now := today
	news := services.NewNewsService(repositories.NewNewsRepository(e.db), time.Hour, func() time.Time { return now })

	first, err := news.Create(ctx, editor, services.NewsInput{Title: " First ", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, today.Add(time.Hour), first.ExpiresAt)

	now = today.Add(30 * time.Minute)
	_, err = news.Create(ctx, editor, services.NewsInput{Title: "Second", Content: "again"})
	require.NoError(t, err)

	posts, err := news.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "editor", posts[0].Author.Username)

	now = today.Add(61 * time.Minute)
	posts, err = news.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Second", posts[0].Title)
}
