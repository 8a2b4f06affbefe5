package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/derkuci/prefect/internal/api"
	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/internal/infrastructure"
	"github.com/derkuci/prefect/pkg/handlers"
	"github.com/derkuci/prefect/pkg/module"
)

// Server owns the HTTP listener, the API module, and the infrastructure
// lifecycle.
type Server struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	http   *http.Server
	router *module.Router
}

// NewServer builds infrastructure, assembles the API module, and wires the
// router with native health, readiness, and metrics endpoints.
func NewServer(cfg *config.Config, version string) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.New(cfg, infra, version)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	router.Mount(apiModule.Module())

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "starting",
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	router.HandleNative("GET /metrics", apiModule.Metrics().Handler())

	return &Server{
		cfg:   cfg,
		infra: infra,
		http: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: router,
		},
		router: router,
	}, nil
}

// Start brings up the infrastructure, waits for the startup barrier, and
// begins serving in the background.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	s.infra.Logger.Info("server listening",
		"addr", s.http.Addr,
		"environment", s.cfg.Server.Environment,
	)

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.infra.Logger.Error("http server failed", "error", err)
		}
	}()

	return nil
}

// Shutdown stops accepting connections, then drains subsystem shutdown
// hooks within the configured timeout.
func (s *Server) Shutdown() error {
	timeout := s.cfg.Server.ShutdownTimeoutDuration()
	s.infra.Logger.Info("shutting down", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return fmt.Errorf("lifecycle shutdown: %w", err)
	}

	s.infra.Logger.Info("shutdown complete")
	return nil
}
