package services

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

func TestGeneratePKCEParams(t *testing.T) {
	params, err := generatePKCEParams()
	require.NoError(t, err)

	t.Run("verifier length", func(t *testing.T) {
		// 32 random bytes encode to the RFC 7636 minimum of 43 chars.
		assert.Len(t, params.CodeVerifier, 43)
	})

	t.Run("verifier is base64url without padding", func(t *testing.T) {
		_, err := base64.RawURLEncoding.DecodeString(params.CodeVerifier)
		assert.NoError(t, err)
		assert.NotContains(t, params.CodeVerifier, "=")
		assert.NotContains(t, params.CodeVerifier, "+")
		assert.NotContains(t, params.CodeVerifier, "/")
	})

	t.Run("challenge is S256 of verifier", func(t *testing.T) {
		hash := sha256.Sum256([]byte(params.CodeVerifier))
		expected := base64.RawURLEncoding.EncodeToString(hash[:])
		assert.Equal(t, expected, params.CodeChallenge)
	})

	t.Run("method", func(t *testing.T) {
		assert.Equal(t, domain.ChallengeMethodS256, params.Method)
	})
}

func TestGeneratePKCEParamsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		params, err := generatePKCEParams()
		require.NoError(t, err)
		assert.False(t, seen[params.CodeVerifier], "verifier repeated")
		seen[params.CodeVerifier] = true
	}
}

func TestGenerateState(t *testing.T) {
	state, err := generateState()
	require.NoError(t, err)
	assert.Len(t, state, 43)

	other, err := generateState()
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}
