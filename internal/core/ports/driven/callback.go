package driven

import (
	"context"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// CallbackListener receives exactly one OAuth redirect on a loopback
// address. The listener only captures what arrived; state validation is
// the login service's job.
type CallbackListener interface {
	// Start binds the listener. When the preferred port is taken an
	// OS-assigned ephemeral port is used instead; Port and RedirectURI
	// reflect the actual binding.
	Start() error

	// Port returns the bound port.
	Port() int

	// RedirectURI returns the redirect URI for the actual binding.
	RedirectURI() string

	// Await blocks until one redirect is captured or ctx expires.
	// Expiry yields domain.ErrAuthTimeout.
	Await(ctx context.Context) (domain.CallbackResult, error)

	// Close releases the port. A late redirect arriving afterwards is
	// dropped, never a crash.
	Close() error
}
