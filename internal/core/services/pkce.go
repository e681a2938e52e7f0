package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// Random byte lengths for PKCE material. 32 bytes encode to 43
// characters, the RFC 7636 minimum verifier length.
const (
	verifierBytes = 32
	stateBytes    = 32
)

// generatePKCEParams creates a code verifier and its S256 challenge for
// one flow attempt.
func generatePKCEParams() (domain.PKCEParams, error) {
	buf := make([]byte, verifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return domain.PKCEParams{}, err
	}
	verifier := base64.RawURLEncoding.EncodeToString(buf)

	hash := sha256.Sum256([]byte(verifier))

	return domain.PKCEParams{
		CodeVerifier:  verifier,
		CodeChallenge: base64.RawURLEncoding.EncodeToString(hash[:]),
		Method:        domain.ChallengeMethodS256,
	}, nil
}

// generateState creates a random state parameter for CSRF protection.
// States are never reused across attempts.
func generateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
