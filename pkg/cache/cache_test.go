package cache_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/derkuci/prefect/pkg/cache"
	"github.com/derkuci/prefect/pkg/lifecycle"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	cfg := &cache.Config{Enabled: false}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys := cache.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := t.Context()

	if err := sys.Start(lifecycle.New()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := sys.Set(ctx, "k", "v"); err != nil {
		t.Errorf("set: %v", err)
	}

	if _, err := sys.Get(ctx, "k"); !errors.Is(err, cache.ErrMiss) {
		t.Errorf("get err = %v, want miss", err)
	}

	if err := sys.Delete(ctx, "k"); err != nil {
		t.Errorf("delete: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg cache.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Addr != "localhost:6379" {
			t.Errorf("addr = %s, want localhost:6379", cfg.Addr)
		}
		if cfg.TTLDuration() != 5*time.Minute {
			t.Errorf("ttl = %v, want 5m", cfg.TTLDuration())
		}
	})

	t.Run("invalid ttl rejected", func(t *testing.T) {
		cfg := cache.Config{TTL: "soon"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for invalid ttl")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TEST_CACHE_ENABLED", "true")
		t.Setenv("TEST_CACHE_ADDR", "redis.internal:6379")

		var cfg cache.Config
		err := cfg.Finalize(&cache.Env{
			Enabled: "TEST_CACHE_ENABLED",
			Addr:    "TEST_CACHE_ADDR",
		})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if !cfg.Enabled {
			t.Error("enabled = false, want true")
		}
		if cfg.Addr != "redis.internal:6379" {
			t.Errorf("addr = %s", cfg.Addr)
		}
	})
}
