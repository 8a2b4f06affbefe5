// Package auth authenticates API requests and attaches the caller's
// capability flags to the request context. Two modes are supported:
// "none" grants a configurable static principal to every request (open
// deployments), and "oidc" verifies bearer tokens and resolves the token
// subject's stored capability set.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/derkuci/prefect/internal/capabilities"
)

// Authentication modes.
const (
	ModeNone = "none"
	ModeOIDC = "oidc"
)

// Principal is an authenticated caller with resolved capability flags.
type Principal struct {
	Subject string             `json:"subject"`
	Flags   capabilities.Flags `json:"flags"`
}

// Authenticator validates request credentials and returns a principal.
type Authenticator interface {
	Authenticate(r *http.Request) (*Principal, error)
}

// FlagsResolver looks up the stored capability set for a subject.
// capabilities.System satisfies this interface.
type FlagsResolver interface {
	FindBySubject(ctx context.Context, subject string) (*capabilities.CapabilitySet, error)
}

// Authentication errors.
var (
	ErrMissingToken        = errors.New("missing bearer token")
	ErrInvalidToken        = errors.New("invalid bearer token")
	ErrResolverUnavailable = errors.New("capability resolution unavailable")
)

// resolveFlags looks up the subject's stored flags. Unknown subjects get
// the zero flag set: every always-visible section, no gated ones. Any
// other resolver failure is an infrastructure problem and surfaces as
// ErrResolverUnavailable rather than a silently degraded principal.
func resolveFlags(
	ctx context.Context,
	resolver FlagsResolver,
	logger *slog.Logger,
	subject string,
) (capabilities.Flags, error) {
	cs, err := resolver.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, capabilities.ErrNotFound) {
			return capabilities.Flags{}, nil
		}
		logger.Warn("capability resolution failed", "subject", subject, "error", err)
		return capabilities.Flags{}, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}
	return cs.Flags, nil
}
