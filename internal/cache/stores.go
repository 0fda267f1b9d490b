package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore accepts a redis:// URL or a bare host:port.
func NewRedisStore(addr string) (*RedisStore, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type MemcacheStore struct {
	client *memcache.Client
}

// NewMemcacheStore takes a comma-separated server list.
func NewMemcacheStore(servers string) *MemcacheStore {
	var addrs []string
	for _, s := range strings.Split(servers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			addrs = append(addrs, s)
		}
	}
	return &MemcacheStore{client: memcache.New(addrs...)}
}

func (s *MemcacheStore) Ping(context.Context) error {
	return s.client.Ping()
}

func (s *MemcacheStore) Get(_ context.Context, key string) ([]byte, error) {
	item, err := s.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (s *MemcacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
}

func (s *MemcacheStore) Delete(_ context.Context, key string) error {
	err := s.client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

// Close is a no-op: the memcache client has no persistent state to release.
func (s *MemcacheStore) Close() error {
	return nil
}

// Open picks the shared store: Redis when redisURL is set, otherwise
// Memcached when memcachedAddr is set, otherwise none.
func Open(ctx context.Context, redisURL, memcachedAddr string) (Store, error) {
	switch {
	case redisURL != "":
		s, err := NewRedisStore(redisURL)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return s, nil
	case memcachedAddr != "":
		s := NewMemcacheStore(memcachedAddr)
		if err := s.Ping(ctx); err != nil {
			return nil, fmt.Errorf("memcached ping: %w", err)
		}
		return s, nil
	default:
		return nil, nil
	}
}
