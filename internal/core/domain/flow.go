package domain

// ChallengeMethodS256 is the only PKCE challenge method sesame sends.
const ChallengeMethodS256 = "S256"

// PKCEParams holds the verifier/challenge pair for one flow attempt.
// The pair is immutable once generated and is never persisted.
type PKCEParams struct {
	// CodeVerifier is a base64url-encoded random secret (RFC 7636,
	// 43-128 characters).
	CodeVerifier string
	// CodeChallenge is the base64url-encoded SHA-256 digest of the
	// verifier, sent upfront in the authorization request.
	CodeChallenge string
	// Method is always ChallengeMethodS256.
	Method string
}

// CallbackResult is what the loopback redirect delivered: either an
// authorization code with the echoed state, or a provider error.
// A listener captures at most one result per flow attempt.
type CallbackResult struct {
	Code  string
	State string
	Err   string
}

// Denied reports whether the provider returned an error instead of a code.
func (r CallbackResult) Denied() bool {
	return r.Err != ""
}
