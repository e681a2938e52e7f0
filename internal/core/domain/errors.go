package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent authentication flow failures.
// Each terminal flow state maps to a distinct error so callers can
// decide whether to re-prompt, show a specific message, or abort.
var (
	// ErrInvalidConfig indicates a missing or malformed required setting
	// (client ID, provider base URL). Raised before any network activity.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuthTimeout indicates no callback was received within the
	// configured window. The caller may retry the whole flow.
	ErrAuthTimeout = errors.New("authentication timed out")

	// ErrStateMismatch indicates the anti-CSRF state check failed.
	// The flow aborts without attempting a token exchange.
	ErrStateMismatch = errors.New("state mismatch, possible CSRF")

	// ErrAccessDenied indicates the provider returned an error on the
	// redirect, e.g. the user declined consent.
	ErrAccessDenied = errors.New("authorization denied")

	// ErrTokenExchange indicates a non-success response from the token
	// endpoint.
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrNotAuthenticated indicates no usable cached token exists.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// DeniedError carries the provider's error string from the redirect.
// It matches ErrAccessDenied under errors.Is.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authorization denied by provider: %s", e.Reason)
}

// Is reports whether target is ErrAccessDenied.
func (e *DeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// ExchangeError carries the status and body of a failed token exchange
// for diagnostics. It matches ErrTokenExchange under errors.Is.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrTokenExchange.
func (e *ExchangeError) Is(target error) bool {
	return target == ErrTokenExchange
}
