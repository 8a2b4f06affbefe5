package api

import (
	"net/http"

	"github.com/derkuci/prefect/internal/infrastructure"
	"github.com/derkuci/prefect/internal/navigation"
	"github.com/derkuci/prefect/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, d *domains, infra *infrastructure.Infrastructure) {
	routes.Register(mux,
		navigation.NewHandler(infra.Logger).Routes(),
		d.capabilities.Handler().Routes(),
		d.flows.Handler().Routes(),
		d.flowruns.Handler().Routes(),
		d.variables.Handler().Routes(),
		d.artifacts.Handler().Routes(),
	)
}
