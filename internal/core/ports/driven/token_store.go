package driven

import (
	"context"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// TokenStore persists one token payload with restrictive permissions.
type TokenStore interface {
	// Save writes the token, injecting obtained_at and the derived
	// expires_at, and returns the enriched copy. Only complete exchange
	// results are ever saved.
	Save(ctx context.Context, token *domain.Token) (*domain.Token, error)

	// Load returns the cached token, or nil when the file is missing,
	// unreadable, unparseable, or expired. Load never fails hard: a
	// broken cache must not block a fresh interactive login.
	Load(ctx context.Context) (*domain.Token, error)

	// Delete removes the cached token. A missing file is not an error.
	Delete(ctx context.Context) error
}
