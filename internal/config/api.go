package config

import (
	"fmt"
	"os"

	"github.com/derkuci/prefect/pkg/formatting"
	"github.com/derkuci/prefect/pkg/middleware"
	"github.com/derkuci/prefect/pkg/openapi"
	"github.com/derkuci/prefect/pkg/pagination"
)

// APIConfig holds settings for the API surface: mount path, upload limits,
// CORS policy, pagination bounds, and OpenAPI metadata.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// APIEnv maps API config fields to environment variable names.
type APIEnv struct {
	BasePath      string
	MaxUploadSize string
	CORS          *middleware.CORSEnv
	Pagination    *pagination.ConfigEnv
	OpenAPI       *openapi.ConfigEnv
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *APIConfig) MaxUploadBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

// Finalize applies defaults, environment overrides, and validation.
func (c *APIConfig) Finalize(env *APIEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)

		if err := c.CORS.Finalize(env.CORS); err != nil {
			return fmt.Errorf("cors: %w", err)
		}
		if err := c.Pagination.Finalize(env.Pagination); err != nil {
			return fmt.Errorf("pagination: %w", err)
		}
		if err := c.OpenAPI.Finalize(env.OpenAPI); err != nil {
			return fmt.Errorf("openapi: %w", err)
		}
	} else {
		if err := c.CORS.Finalize(nil); err != nil {
			return fmt.Errorf("cors: %w", err)
		}
		if err := c.Pagination.Finalize(nil); err != nil {
			return fmt.Errorf("pagination: %w", err)
		}
		if err := c.OpenAPI.Finalize(nil); err != nil {
			return fmt.Errorf("openapi: %w", err)
		}
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "32MB"
	}
}

func (c *APIConfig) loadEnv(env *APIEnv) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
}

func (c *APIConfig) validate() error {
	if c.BasePath == "" || c.BasePath[0] != '/' {
		return fmt.Errorf("base_path must start with /")
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
