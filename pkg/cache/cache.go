// Package cache provides an optional Redis-backed key/value cache with
// lifecycle coordination. When disabled by configuration, New returns a
// no-op system so callers never branch on availability.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/derkuci/prefect/pkg/lifecycle"
)

// ErrMiss indicates the key is not present in the cache.
var ErrMiss = errors.New("cache miss")

// System is a string key/value cache with a configured TTL.
type System interface {
	// Start registers startup and shutdown hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Get returns the cached value for key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key for the configured TTL.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// New creates a cache system. A disabled config yields a no-op system.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled {
		return noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisCache{
		client: client,
		ttl:    cfg.TTLDuration(),
		logger: logger.With("system", "cache"),
	}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), 5*time.Second)
		defer cancel()

		if err := c.client.Ping(pingCtx).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}

		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}

		c.logger.Info("cache connection closed")
	})

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

type noop struct{}

func (noop) Start(*lifecycle.Coordinator) error          { return nil }
func (noop) Get(context.Context, string) (string, error) { return "", ErrMiss }
func (noop) Set(context.Context, string, string) error   { return nil }
func (noop) Delete(context.Context, string) error        { return nil }
