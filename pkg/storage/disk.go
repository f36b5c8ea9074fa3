// Package storage stores uploaded files (comic covers) on a configurable
// disk.
//
// Two drivers are available:
//   - "local": local filesystem (default), served under STORAGE_URL
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disk, err := storage.FromConfig(ctx)
//	err = disk.Put(ctx, "covers/42/abc.png", file, "image/png")
//	url := disk.URL("covers/42/abc.png")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bazinga/storefront/config"
)

// ErrInvalidPath is returned for empty paths or paths escaping the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is the driver interface.
type Disk interface {
	// Put writes r to p, replacing any existing file.
	Put(ctx context.Context, p string, r io.Reader, contentType string) error
	// Get returns the full content of p.
	Get(ctx context.Context, p string) ([]byte, error)
	// Exists reports whether p exists.
	Exists(ctx context.Context, p string) (bool, error)
	// Delete removes p. Deleting a missing file is not an error.
	Delete(ctx context.Context, p string) error
	// URL returns the public URL for p.
	URL(p string) string
}

// FromConfig builds the disk named by STORAGE_DISK.
func FromConfig(ctx context.Context) (Disk, error) {
	switch name := config.StorageDisk(); name {
	case "local", "":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}

// clean normalises p to a relative slash path and rejects traversal.
func clean(p string) (string, error) {
	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidPath
	}
	return c, nil
}
