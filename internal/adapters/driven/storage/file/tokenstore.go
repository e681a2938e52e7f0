// Package file persists tokens as a JSON file in the user's sesame
// directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sesame-cli/internal/logger"
)

// Ensure TokenStore implements the port.
var _ driven.TokenStore = (*TokenStore)(nil)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// TokenStore reads and writes a single token file. The file is the
// provider's token response with obtained_at and expires_at stamped in,
// so provider-specific fields survive untouched.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store writing to the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Save stamps the token with capture and expiry times, writes it with
// owner-only permissions, and returns the enriched copy.
func (s *TokenStore) Save(_ context.Context, token *domain.Token) (*domain.Token, error) {
	now := time.Now()

	lifetime := domain.DefaultTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}

	stored := *token
	stored.ObtainedAt = now
	stored.ExpiresAt = now.Add(lifetime)

	raw := token.Raw
	if !gjson.ValidBytes(raw) {
		raw = []byte("{}")
		var err error
		if raw, err = sjson.SetBytes(raw, "access_token", token.AccessToken); err != nil {
			return nil, fmt.Errorf("encode token: %w", err)
		}
		if raw, err = sjson.SetBytes(raw, "id_token", token.IDToken); err != nil {
			return nil, fmt.Errorf("encode token: %w", err)
		}
		if raw, err = sjson.SetBytes(raw, "token_type", token.TokenType); err != nil {
			return nil, fmt.Errorf("encode token: %w", err)
		}
		if raw, err = sjson.SetBytes(raw, "expires_in", token.ExpiresIn); err != nil {
			return nil, fmt.Errorf("encode token: %w", err)
		}
	}

	raw, err := sjson.SetBytes(raw, "obtained_at", stored.ObtainedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("stamp token: %w", err)
	}
	raw, err = sjson.SetBytes(raw, "expires_at", stored.ExpiresAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("stamp token: %w", err)
	}
	stored.Raw = raw

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return nil, fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, filePerm); err != nil {
		return nil, fmt.Errorf("write token file: %w", err)
	}
	// WriteFile does not tighten an existing file's mode.
	if err := os.Chmod(s.path, filePerm); err != nil {
		return nil, fmt.Errorf("restrict token file: %w", err)
	}

	return &stored, nil
}

// Load returns the cached token, or nil when the file is missing,
// unreadable, malformed, or expired. Every failure mode is a cache
// miss: the caller's recovery is the same interactive flow regardless
// of cause.
func (s *TokenStore) Load(_ context.Context) (*domain.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("token file unreadable: %v", err)
		}
		return nil, nil
	}

	if !gjson.ValidBytes(data) {
		logger.Debug("token file is not valid JSON, ignoring")
		return nil, nil
	}

	expiresAt := gjson.GetBytes(data, "expires_at")
	if !expiresAt.Exists() {
		logger.Debug("token file has no expiry, ignoring")
		return nil, nil
	}
	// Epoch-second comparison: the exact boundary counts as expired.
	if time.Now().Unix() >= expiresAt.Int() {
		logger.Debug("cached token expired at %d", expiresAt.Int())
		return nil, nil
	}

	token := &domain.Token{
		AccessToken: gjson.GetBytes(data, "access_token").String(),
		IDToken:     gjson.GetBytes(data, "id_token").String(),
		TokenType:   gjson.GetBytes(data, "token_type").String(),
		ExpiresIn:   gjson.GetBytes(data, "expires_in").Int(),
		ObtainedAt:  time.Unix(gjson.GetBytes(data, "obtained_at").Int(), 0),
		ExpiresAt:   time.Unix(expiresAt.Int(), 0),
		Raw:         data,
	}
	if token.AccessToken == "" && token.IDToken == "" {
		logger.Debug("token file carries no token, ignoring")
		return nil, nil
	}
	return token, nil
}

// Delete removes the token file. A missing file is not an error.
func (s *TokenStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
