// Package cache is a two-level JSON cache: an in-process ccache in front of
// an optional shared store (Redis or Memcached).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the shared second level.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Cache struct {
	local  *ccache.Cache[[]byte]
	remote Store
	ttl    time.Duration
}

// New builds a cache. remote may be nil for a process-local cache.
func New(remote Store, ttl time.Duration) *Cache {
	return &Cache{
		local:  ccache.New(ccache.Configure[[]byte]().MaxSize(1000)),
		remote: remote,
		ttl:    ttl,
	}
}

// Get decodes the cached value for key into dst and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if item := c.local.Get(key); item != nil && !item.Expired() {
		if err := json.Unmarshal(item.Value(), dst); err == nil {
			return true
		}
		c.local.Delete(key)
	}
	if c.remote == nil {
		return false
	}

	raw, err := c.remote.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			slog.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "cache entry undecodable", "key", key, "error", err)
		return false
	}
	c.local.Set(key, raw, c.ttl)
	return true
}

// Set stores v under key on both levels. Failures are logged, never returned.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	c.local.Set(key, raw, c.ttl)
	if c.remote == nil {
		return
	}
	if err := c.remote.Set(ctx, key, raw, c.ttl); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.local.Delete(key)
		if c.remote == nil {
			continue
		}
		if err := c.remote.Delete(ctx, key); err != nil && !errors.Is(err, ErrMiss) {
			slog.WarnContext(ctx, "cache delete failed", "key", key, "error", err)
		}
	}
}

func (c *Cache) Close() error {
	c.local.Stop()
	if c.remote != nil {
		return c.remote.Close()
	}
	return nil
}
