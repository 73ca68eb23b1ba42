// Package redis implements a read-through cache of short key resolutions.
//
// Short keys are never reassigned, so a cached key -> URL pair can only
// expire, never become wrong. The cache is not a source of truth: a miss or
// an error always falls back to the database.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "short_key:"

type ResolveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResolveCache(client *redis.Client, ttl time.Duration) *ResolveCache {
	return &ResolveCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached original URL for key. The boolean is false on a cache miss.
func (c *ResolveCache) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "adapter.cache.redis.ResolveCache.Get"

	url, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: failed to get cached url: %w", op, err)
	}

	return url, true, nil
}

func (c *ResolveCache) Set(ctx context.Context, key, originalURL string) error {
	const op = "adapter.cache.redis.ResolveCache.Set"

	if err := c.client.Set(ctx, cacheKey(key), originalURL, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to cache url: %w", op, err)
	}

	return nil
}

func cacheKey(key string) string {
	return keyPrefix + key
}
