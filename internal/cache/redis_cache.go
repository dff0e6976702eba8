package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
)

// ResultCache wraps an upstream fetch with a get-or-compute-and-store
// pattern. Fetch is the only read/write operation callers see: the hit/miss
// branching stays inside the implementation.
type ResultCache interface {
	Fetch(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// QueryKey derives a deterministic cache key from a fully expanded upstream
// query URL, so identical parameters always hit the same entry.
func QueryKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

type RedisResultCache struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisResultCache(cfg config.RedisConfig, log logger.Logger) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log = log.WithField("component", "result_cache")
	log.Info("Redis result cache initialized")

	return &RedisResultCache{
		client: client,
		logger: log,
	}, nil
}

// Fetch returns the cached value for key if present, otherwise invokes
// compute, stores the result with the given TTL and returns it. The cache
// write is best-effort: a Redis SET failure is logged and the freshly
// computed value is still returned.
func (c *RedisResultCache) Fetch(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		c.logger.Debugf("Cache hit for %s", key)
		return data, nil
	}
	if err != redis.Nil {
		c.logger.Warnf("Cache read failed for %s: %v", key, err)
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warnf("Cache write failed for %s: %v", key, err)
	} else {
		c.logger.Debugf("Cached %d bytes under %s (ttl %v)", len(data), key, ttl)
	}

	return data, nil
}

func (c *RedisResultCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisResultCache) Close() error {
	c.logger.Info("Closing result cache...")
	return c.client.Close()
}
