// Package api assembles the dashboard API module: domain systems, routes,
// middleware, and the OpenAPI document, mounted under a configurable base
// path.
package api

import (
	"fmt"
	"net/http"

	"github.com/derkuci/prefect/internal/auth"
	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/internal/infrastructure"
	"github.com/derkuci/prefect/internal/metrics"
	"github.com/derkuci/prefect/pkg/middleware"
	"github.com/derkuci/prefect/pkg/module"
	"github.com/derkuci/prefect/pkg/openapi"
)

// API is the assembled dashboard API module.
type API struct {
	module  *module.Module
	metrics *metrics.Collector
}

// New builds the API module from configuration and infrastructure. In oidc
// mode the authenticator is constructed eagerly, so an unreachable issuer
// fails startup rather than the first request.
func New(cfg *config.Config, infra *infrastructure.Infrastructure, version string) (*API, error) {
	d := newDomains(cfg, infra)

	var authenticator auth.Authenticator
	if cfg.Auth.Mode == auth.ModeOIDC {
		var err error
		authenticator, err = auth.NewOIDC(infra.Lifecycle.Context(), &cfg.Auth, d.capabilities, infra.Logger)
		if err != nil {
			return nil, fmt.Errorf("configure oidc authenticator: %w", err)
		}
	}

	specBytes, err := buildSpec(cfg, version)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, d, infra)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	collector := metrics.NewCollector()

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(infra.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(metrics.Middleware(collector))
	m.Use(auth.Middleware(&cfg.Auth, authenticator, infra.Logger))

	return &API{
		module:  m,
		metrics: collector,
	}, nil
}

// Module returns the mountable API module.
func (a *API) Module() *module.Module {
	return a.module
}

// Metrics returns the request metrics collector.
func (a *API) Metrics() *metrics.Collector {
	return a.metrics
}
