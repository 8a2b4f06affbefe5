package api

import (
	"github.com/derkuci/prefect/internal/artifacts"
	"github.com/derkuci/prefect/internal/capabilities"
	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/internal/flowruns"
	"github.com/derkuci/prefect/internal/flows"
	"github.com/derkuci/prefect/internal/infrastructure"
	"github.com/derkuci/prefect/internal/variables"
)

// domains holds the assembled domain systems served by the API module.
type domains struct {
	capabilities capabilities.System
	flows        flows.System
	flowruns     flowruns.System
	variables    variables.System
	artifacts    artifacts.System
}

func newDomains(cfg *config.Config, infra *infrastructure.Infrastructure) *domains {
	db := infra.Database.Connection()
	pag := cfg.API.Pagination

	return &domains{
		capabilities: capabilities.New(db, infra.Cache, infra.Logger, pag),
		flows:        flows.New(db, infra.Logger, pag),
		flowruns:     flowruns.New(db, infra.Logger, pag),
		variables:    variables.New(db, infra.Logger, pag),
		artifacts: artifacts.New(
			db,
			infra.Storage,
			infra.Logger,
			pag,
			cfg.API.MaxUploadBytes(),
		),
	}
}
