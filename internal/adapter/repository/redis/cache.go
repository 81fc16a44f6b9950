package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheNamespace prefixes every key written through Cache.
const DefaultCacheNamespace = "pawnledger:cache:"

// Cache implements usecase.Cache. The price provider keeps its last known good quote
// here so a restarted server can still answer when the metals feed is down.
type Cache struct {
	client    redis.Cmdable
	namespace string
}

// NewCache creates a Cache under DefaultCacheNamespace.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client, namespace: DefaultCacheNamespace}
}

// WithNamespace returns a Cache sharing the client under a different key prefix.
func (c *Cache) WithNamespace(namespace string) *Cache {
	return &Cache{client: c.client, namespace: namespace}
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.namespace+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.namespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespace+key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}
