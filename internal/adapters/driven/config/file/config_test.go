package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigDir, EnvClientID, EnvBaseURL,
		EnvRedirectPort, EnvRedirectPath, EnvScopes, EnvAuthTimeout,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
client_id = "my-client"
base_url = "https://api-tenant.duosecurity.com"
redirect_port = 9000
scopes = "openid"
auth_timeout = 30
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "my-client", cfg.ClientID)
	assert.Equal(t, "https://api-tenant.duosecurity.com", cfg.BaseURL)
	assert.Equal(t, 9000, cfg.RedirectPort)
	assert.Equal(t, []string{"openid"}, cfg.ScopeList())
	assert.Equal(t, 30, cfg.AuthTimeoutSeconds)
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
client_id = "my-client"
base_url = "https://accounts.google.com"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultRedirectPort, cfg.RedirectPort)
	assert.Equal(t, DefaultRedirectPath, cfg.RedirectPath)
	assert.Equal(t, []string{"openid", "email", "profile"}, cfg.ScopeList())
	assert.Equal(t, DefaultAuthTimeout, cfg.AuthTimeoutSeconds)
	assert.Equal(t, filepath.Join(dir, "token.json"), cfg.TokenPath())
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvBaseURL, "https://github.com")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, "https://github.com", cfg.BaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
client_id = "file-client"
base_url = "https://accounts.google.com"
redirect_port = 9000
`)
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvRedirectPort, "9100")
	t.Setenv(EnvAuthTimeout, "15")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, 9100, cfg.RedirectPort)
	assert.Equal(t, 15, cfg.AuthTimeoutSeconds)
}

func TestLoadMissingClientID(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `base_url = "https://accounts.google.com"`)

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadMissingBaseURL(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `client_id = "my-client"`)

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadInvalidBaseURL(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
client_id = "my-client"
base_url = "not a url"
`)

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadMalformedTOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `client_id = [broken`)

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadBadPortEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvClientID, "c")
	t.Setenv(EnvBaseURL, "https://github.com")
	t.Setenv(EnvRedirectPort, "not-a-port")

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestConfigDirFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigDir, "/tmp/custom-sesame")

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-sesame", dir)
}
