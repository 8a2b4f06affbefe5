package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type oidcAuthenticator struct {
	verifier *oidc.IDTokenVerifier
	resolver FlagsResolver
	logger   *slog.Logger
}

// NewOIDC creates an Authenticator that verifies bearer tokens against the
// configured issuer and resolves the verified subject's capability flags.
// Provider discovery happens eagerly and fails construction when the
// issuer is unreachable.
func NewOIDC(ctx context.Context, cfg *Config, resolver FlagsResolver, logger *slog.Logger) (Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}

	return &oidcAuthenticator{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.Audience}),
		resolver: resolver,
		logger:   logger.With("system", "auth"),
	}, nil
}

func (a *oidcAuthenticator) Authenticate(r *http.Request) (*Principal, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, ErrMissingToken
	}

	token, err := a.verifier.Verify(r.Context(), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	flags, err := resolveFlags(r.Context(), a.resolver, a.logger, token.Subject)
	if err != nil {
		return nil, err
	}

	return &Principal{
		Subject: token.Subject,
		Flags:   flags,
	}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
