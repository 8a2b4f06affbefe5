package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/derkuci/prefect/internal/capabilities"
	"github.com/derkuci/prefect/pkg/handlers"
)

// Middleware returns module middleware that authenticates each request and
// stores the resulting principal in the request context.
//
// Mode "none" attaches the configured anonymous principal to every
// request. Mode "oidc" rejects requests without a verifiable bearer token.
func Middleware(cfg *Config, authenticator Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Mode == ModeNone {
				p := &Principal{
					Subject: "anonymous",
					Flags:   cfg.anonymousFlags(),
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}

			principal, err := authenticator.Authenticate(r)
			if err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, ErrResolverUnavailable) {
					status = http.StatusServiceUnavailable
				}
				handlers.RespondError(w, logger, status, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func (c *Config) anonymousFlags() capabilities.Flags {
	if c.AnonymousAll {
		return capabilities.AllFlags()
	}
	return capabilities.Flags{}
}
