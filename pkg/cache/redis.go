// Package cache is a small JSON cache over Redis. A nil *Cache, or one
// built without an address, is a valid no-op cache: every Get misses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/pkg/logger"
	"github.com/bazinga/storefront/pkg/metrics"
)

type Cache struct {
	rdb    *redis.Client
	prefix string
}

// New wraps an existing client. Keys are namespaced with prefix.
func New(rdb *redis.Client, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

// Connect dials REDIS_ADDR and verifies the connection with a ping. With no
// address configured it returns a disabled cache and no error.
func Connect(ctx context.Context) (*Cache, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb, "bazinga:"), nil
}

// Enabled reports whether c is backed by a Redis client.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Cache) enabled() bool { return c.Enabled() }

// Get unmarshals the value under key into dest and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}

	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		metrics.RecordCache(key, false)
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.RecordCache(key, false)
		return false
	}

	metrics.RecordCache(key, true)
	return true
}

// Set stores value under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Forget removes keys.
func (c *Cache) Forget(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}
