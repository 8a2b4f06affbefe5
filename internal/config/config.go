// Package config loads layered TOML configuration: a base config.toml, an
// environment overlay config.<environment>.toml, then PREFECT_* environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/derkuci/prefect/internal/auth"
	"github.com/derkuci/prefect/pkg/cache"
	"github.com/derkuci/prefect/pkg/database"
	"github.com/derkuci/prefect/pkg/middleware"
	"github.com/derkuci/prefect/pkg/openapi"
	"github.com/derkuci/prefect/pkg/pagination"
	"github.com/derkuci/prefect/pkg/storage"
)

// Config is the root configuration for the server.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Database database.Config `toml:"database"`
	Storage  storage.Config  `toml:"storage"`
	Cache    cache.Config    `toml:"cache"`
	Auth     auth.Config     `toml:"auth"`
	API      APIConfig       `toml:"api"`
}

// Load reads the base config file, merges the environment overlay, applies
// environment variable overrides, and validates the result. A missing base
// file is not an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := readFile(path, cfg); err != nil {
		return nil, err
	}

	environment := cfg.Server.Environment
	if v := os.Getenv("PREFECT_ENVIRONMENT"); v != "" {
		environment = v
	}

	// Merge the overlay only when the file exists. An absent overlay must
	// not clobber base values: Merge applies bool fields unconditionally.
	if environment != "" {
		overlayPath := overlayPath(path, environment)

		if _, err := os.Stat(overlayPath); err == nil {
			overlay := &Config{}
			if err := readFile(overlayPath, overlay); err != nil {
				return nil, err
			}
			cfg.merge(overlay)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Auth.Merge(&overlay.Auth)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	if err := c.Server.Finalize(serverEnv()); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv()); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv()); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv()); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if err := c.Auth.Finalize(authEnv()); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.API.Finalize(apiEnv()); err != nil {
		return fmt.Errorf("api config: %w", err)
	}
	return nil
}

func readFile(path string, target *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func overlayPath(base, environment string) string {
	dir := filepath.Dir(base)
	name := filepath.Base(base)
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	return filepath.Join(dir, fmt.Sprintf("%s.%s%s", stem, environment, ext))
}

func serverEnv() *ServerEnv {
	return &ServerEnv{
		Host:            "PREFECT_SERVER_HOST",
		Port:            "PREFECT_SERVER_PORT",
		Environment:     "PREFECT_ENVIRONMENT",
		LogLevel:        "PREFECT_LOG_LEVEL",
		ShutdownTimeout: "PREFECT_SHUTDOWN_TIMEOUT",
	}
}

func databaseEnv() *database.Env {
	return &database.Env{
		Host:            "PREFECT_DB_HOST",
		Port:            "PREFECT_DB_PORT",
		Name:            "PREFECT_DB_NAME",
		User:            "PREFECT_DB_USER",
		Password:        "PREFECT_DB_PASSWORD",
		SSLMode:         "PREFECT_DB_SSL_MODE",
		MaxOpenConns:    "PREFECT_DB_MAX_OPEN_CONNS",
		MaxIdleConns:    "PREFECT_DB_MAX_IDLE_CONNS",
		ConnMaxLifetime: "PREFECT_DB_CONN_MAX_LIFETIME",
		ConnTimeout:     "PREFECT_DB_CONN_TIMEOUT",
	}
}

func storageEnv() *storage.Env {
	return &storage.Env{
		ContainerName:    "PREFECT_STORAGE_CONTAINER",
		ConnectionString: "PREFECT_STORAGE_CONNECTION_STRING",
	}
}

func cacheEnv() *cache.Env {
	return &cache.Env{
		Enabled:  "PREFECT_CACHE_ENABLED",
		Addr:     "PREFECT_CACHE_ADDR",
		Password: "PREFECT_CACHE_PASSWORD",
		DB:       "PREFECT_CACHE_DB",
		TTL:      "PREFECT_CACHE_TTL",
	}
}

func authEnv() *auth.Env {
	return &auth.Env{
		Mode:         "PREFECT_AUTH_MODE",
		Issuer:       "PREFECT_AUTH_ISSUER",
		Audience:     "PREFECT_AUTH_AUDIENCE",
		AnonymousAll: "PREFECT_AUTH_ANONYMOUS_ALL",
	}
}

func apiEnv() *APIEnv {
	return &APIEnv{
		BasePath:      "PREFECT_API_BASE_PATH",
		MaxUploadSize: "PREFECT_API_MAX_UPLOAD_SIZE",
		CORS: &middleware.CORSEnv{
			Enabled:          "PREFECT_CORS_ENABLED",
			Origins:          "PREFECT_CORS_ORIGINS",
			AllowedMethods:   "PREFECT_CORS_ALLOWED_METHODS",
			AllowedHeaders:   "PREFECT_CORS_ALLOWED_HEADERS",
			AllowCredentials: "PREFECT_CORS_ALLOW_CREDENTIALS",
			MaxAge:           "PREFECT_CORS_MAX_AGE",
		},
		Pagination: &pagination.ConfigEnv{
			DefaultPageSize: "PREFECT_PAGINATION_DEFAULT_PAGE_SIZE",
			MaxPageSize:     "PREFECT_PAGINATION_MAX_PAGE_SIZE",
		},
		OpenAPI: &openapi.ConfigEnv{
			Title:       "PREFECT_OPENAPI_TITLE",
			Description: "PREFECT_OPENAPI_DESCRIPTION",
		},
	}
}
