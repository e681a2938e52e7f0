package domain

import "time"

// Token holds the provider's token response plus the metadata sesame
// derives when persisting it. Raw keeps the provider's original JSON so
// fields sesame does not model survive a save/load round trip.
type Token struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// IDToken is the OIDC identity token, when the provider returns one.
	IDToken string
	// TokenType is typically "Bearer".
	TokenType string
	// ExpiresIn is the provider-reported lifetime in seconds.
	ExpiresIn int64
	// ObtainedAt is when the token was captured. Set by the store.
	ObtainedAt time.Time
	// ExpiresAt is ObtainedAt plus ExpiresIn. Always derived, never
	// provider-supplied. Set by the store.
	ExpiresAt time.Time
	// Raw is the provider's token response body as returned by the
	// token endpoint.
	Raw []byte
}

// DefaultTokenLifetime applies when the provider omits expires_in.
const DefaultTokenLifetime = 3600 * time.Second

// Bearer returns the credential to present on API calls: the access
// token, falling back to the ID token for providers that only mint one.
func (t *Token) Bearer() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.IDToken
}

// IsExpired reports whether the token has reached its expiry.
// The exact boundary counts as expired.
func (t *Token) IsExpired() bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !time.Now().Before(t.ExpiresAt)
}
