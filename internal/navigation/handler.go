package navigation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/derkuci/prefect/internal/auth"
	"github.com/derkuci/prefect/internal/capabilities"
	"github.com/derkuci/prefect/pkg/handlers"
	"github.com/derkuci/prefect/pkg/routes"
)

// Handler provides HTTP endpoints for navigation resolution.
type Handler struct {
	logger *slog.Logger
}

// Result is the JSON payload returned by the navigation endpoints.
type Result struct {
	Entries []Entry            `json:"entries"`
	Flags   capabilities.Flags `json:"flags"`
}

// NewHandler creates a navigation Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger.With("handler", "navigation"),
	}
}

// Routes returns the route group definition for navigation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/navigation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Resolve},
			{Method: "POST", Pattern: "/preview", Handler: h.Preview},
		},
	}
}

// Resolve returns the navigation entries visible to the request principal.
// Unauthenticated requests resolve against the zero flag set.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var flags capabilities.Flags
	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		flags = p.Flags
	}

	handlers.RespondJSON(w, http.StatusOK, Result{
		Entries: Resolve(flags),
		Flags:   flags,
	})
}

// Preview resolves navigation for a capability flag set supplied in the
// request body, letting clients preview the effect of permission changes.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var flags capabilities.Flags
	if err := json.NewDecoder(r.Body).Decode(&flags); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Result{
		Entries: Resolve(flags),
		Flags:   flags,
	})
}
