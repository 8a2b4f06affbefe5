package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds authentication settings.
type Config struct {
	// Mode selects the authentication scheme: "none" or "oidc".
	Mode string `toml:"mode"`
	// Issuer is the OIDC issuer URL (oidc mode).
	Issuer string `toml:"issuer"`
	// Audience is the expected token audience (oidc mode).
	Audience string `toml:"audience"`
	// AnonymousAll grants the full flag set to anonymous requests in
	// "none" mode. Defaults to true so open deployments see every
	// dashboard section.
	AnonymousAll bool `toml:"anonymous_all"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Mode         string
	Issuer       string
	Audience     string
	AnonymousAll string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. AnonymousAll always applies.
func (c *Config) Merge(overlay *Config) {
	c.AnonymousAll = overlay.AnonymousAll

	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeNone
		c.AnonymousAll = true
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Mode != "" {
		if v := os.Getenv(env.Mode); v != "" {
			c.Mode = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.Audience != "" {
		if v := os.Getenv(env.Audience); v != "" {
			c.Audience = v
		}
	}
	if env.AnonymousAll != "" {
		if v := os.Getenv(env.AnonymousAll); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.AnonymousAll = b
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeNone:
		return nil
	case ModeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("issuer required for oidc mode")
		}
		if c.Audience == "" {
			return fmt.Errorf("audience required for oidc mode")
		}
		return nil
	}
	return fmt.Errorf("invalid mode: %q", c.Mode)
}
