package projectcfg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/mrz1836/go-cache"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

// RedisOptions configures the Redis connection pool.
type RedisOptions struct {
	URL         string
	MaxActive   int
	MaxIdle     int
	IdleTimeout time.Duration
}

// RedisCache is a Cache backed by Redis through go-cache.
type RedisCache struct {
	client *cache.Client
}

// NewRedisCache connects to Redis. Connection failures wrap
// ErrCacheUnavailable.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: redis url %w", tferrors.ErrCacheUnavailable, tferrors.ErrEmptyValue)
	}

	client, err := cache.Connect(ctx, opts.URL, opts.MaxActive, opts.MaxIdle, 0, opts.IdleTimeout, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tferrors.ErrCacheUnavailable, err)
	}
	return &RedisCache{client: client}, nil
}

func cacheKey(projectID string) string {
	return constants.CacheKeyPrefix + projectID
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, projectID string) ([]domain.StepDefinition, bool, error) {
	raw, err := cache.Get(ctx, c.client, cacheKey(projectID))
	if errors.Is(err, redis.ErrNil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", tferrors.ErrCacheUnavailable, err)
	}
	if raw == "" {
		return nil, false, nil
	}

	var steps []domain.StepDefinition
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, false, nil //nolint:nilerr // treated as a miss
	}
	return steps, true, nil
}

// Set implements Cache. A ttl under one second falls back to the default.
func (c *RedisCache) Set(ctx context.Context, projectID string, steps []domain.StepDefinition, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = constants.DefaultCacheTTL
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("failed to encode steps: %w", err)
	}
	if err := cache.SetExp(ctx, c.client, cacheKey(projectID), string(data), ttl); err != nil {
		return fmt.Errorf("%w: %w", tferrors.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() {
	c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
