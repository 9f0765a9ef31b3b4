package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cargo-layout-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const layoutKeyPrefix = "layout:"

// Redis-backed cache for computed layout results.
//
// Results are stored as JSON under a snapshot digest with a TTL, so the
// serving layer can skip recomputation for unchanged input. The layout
// engine itself stays cache-free.
type RedisLayoutCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLayoutCache(client *redis.Client, ttl time.Duration) *RedisLayoutCache {
	return &RedisLayoutCache{client: client, ttl: ttl}
}

// Fetch a cached layout; the boolean reports whether the key was present.
func (c *RedisLayoutCache) GetLayout(ctx context.Context, key string) (domain.LayoutResult, bool, error) {
	if c.client == nil {
		return domain.LayoutResult{}, false, errors.New("layout cache: client is nil")
	}

	if key == "" {
		return domain.LayoutResult{}, false, errors.New("get layout cache: key must not be empty")
	}

	raw, err := c.client.Get(ctx, layoutKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.LayoutResult{}, false, nil
	}
	if err != nil {
		return domain.LayoutResult{}, false, fmt.Errorf("get layout cache: key %q: %w", key, err)
	}

	var result domain.LayoutResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss so the caller recomputes.
		return domain.LayoutResult{}, false, nil
	}

	return result, true, nil
}

// Store a layout under the key, bounded by the configured TTL.
func (c *RedisLayoutCache) SetLayout(ctx context.Context, key string, result domain.LayoutResult) error {
	if c.client == nil {
		return errors.New("layout cache: client is nil")
	}

	if key == "" {
		return errors.New("set layout cache: key must not be empty")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("set layout cache: encode result: %w", err)
	}

	if err := c.client.Set(ctx, layoutKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set layout cache: key %q: %w", key, err)
	}

	return nil
}
