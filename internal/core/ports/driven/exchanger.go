package driven

import (
	"context"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// CodeExchanger swaps an authorization code for tokens at the provider's
// token endpoint. PKCE public clients never send a client secret; the
// code verifier takes its place.
type CodeExchanger interface {
	Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.Token, error)
}
