package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazinga/storefront/pkg/storage"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	disk, err := storage.NewLocal(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "covers/7/a.png", strings.NewReader("png-bytes"), "image/png"))

	ok, err := disk.Exists(ctx, "covers/7/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := disk.Get(ctx, "/covers/7/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	assert.Equal(t, "http://localhost:8080/storage/covers/7/a.png", disk.URL("covers/7/a.png"))

	require.NoError(t, disk.Delete(ctx, "covers/7/a.png"))
	require.NoError(t, disk.Delete(ctx, "covers/7/a.png"), "deleting twice is fine")

	ok, err = disk.Exists(ctx, "covers/7/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalDiskRejectsTraversal(t *testing.T) {
	disk, err := storage.NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)

	for _, p := range []string{"", "../etc/passwd", "covers/../../x", ".."} {
		err := disk.Put(context.Background(), p, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, storage.ErrInvalidPath, p)
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := storage.NewS3(context.Background(), storage.S3Options{})
	assert.Error(t, err)
}

func TestNewS3(t *testing.T) {
	disk, err := storage.NewS3(context.Background(), storage.S3Options{
		Bucket:   "covers",
		Region:   "eu-west-1",
		Key:      "minio",
		Secret:   "minio123",
		Endpoint: "http://127.0.0.1:9000",
		BaseURL:  "http://127.0.0.1:9000/covers/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/covers/comics/1.png", disk.URL("/comics/1.png"))
}
