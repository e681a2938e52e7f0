package driving

import (
	"context"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// LoginService runs the browser-based PKCE authentication flow.
type LoginService interface {
	// Login returns a valid cached token when one exists, otherwise it
	// runs a full interactive flow and persists the result.
	Login(ctx context.Context) (*domain.Token, error)

	// Authenticate always runs a full interactive flow, ignoring any
	// cached token, and persists the result.
	Authenticate(ctx context.Context) (*domain.Token, error)

	// Cached returns the valid cached token, or nil when there is none.
	Cached(ctx context.Context) (*domain.Token, error)

	// Logout removes the cached token.
	Logout(ctx context.Context) error
}
