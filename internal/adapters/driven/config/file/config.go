// Package file loads sesame configuration from a TOML file in the
// sesame config directory, with environment variable overrides.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

// Environment variables overriding file settings. The environment wins
// so CI and scripts can point sesame at another provider without
// touching the user's config file.
const (
	EnvConfigDir    = "SESAME_CONFIG_DIR"
	EnvClientID     = "SESAME_CLIENT_ID"
	EnvBaseURL      = "SESAME_BASE_URL"
	EnvRedirectPort = "SESAME_REDIRECT_PORT"
	EnvRedirectPath = "SESAME_REDIRECT_PATH"
	EnvScopes       = "SESAME_SCOPES"
	EnvAuthTimeout  = "SESAME_AUTH_TIMEOUT"
)

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultRedirectPort = 8899
	DefaultRedirectPath = "/callback"
	DefaultScopes       = "openid email profile"
	DefaultAuthTimeout  = 120
	configFileName      = "config.toml"
	tokenFileName       = "token.json"
)

// Config holds everything sesame needs to run an authentication flow.
type Config struct {
	// ClientID is the OAuth public client identifier.
	ClientID string `toml:"client_id" validate:"required"`
	// BaseURL is the provider base URL endpoints are derived from.
	BaseURL string `toml:"base_url" validate:"required,url"`
	// RedirectPort is the preferred loopback callback port.
	RedirectPort int `toml:"redirect_port" validate:"gte=0,lte=65535"`
	// RedirectPath is the callback path on the loopback server.
	RedirectPath string `toml:"redirect_path"`
	// Scopes is the space-separated OAuth scope string.
	Scopes string `toml:"scopes"`
	// AuthTimeoutSeconds bounds the wait for the browser round trip.
	AuthTimeoutSeconds int `toml:"auth_timeout" validate:"gte=0"`

	configDir string
}

// ConfigDir resolves the sesame config directory: SESAME_CONFIG_DIR,
// then ~/.sesame.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".sesame"), nil
}

// Load reads the config file from configDir (when present), applies
// environment overrides and defaults, and validates the result. A
// missing file is fine as long as the environment supplies the required
// settings. Validation failures wrap domain.ErrInvalidConfig.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		var err error
		if configDir, err = ConfigDir(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{configDir: configDir}

	data, err := os.ReadFile(filepath.Join(configDir, configFileName))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfig, configFileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvClientID); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvRedirectPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %v", domain.ErrInvalidConfig, EnvRedirectPort, err)
		}
		c.RedirectPort = port
	}
	if v := os.Getenv(EnvRedirectPath); v != "" {
		c.RedirectPath = v
	}
	if v := os.Getenv(EnvScopes); v != "" {
		c.Scopes = v
	}
	if v := os.Getenv(EnvAuthTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %v", domain.ErrInvalidConfig, EnvAuthTimeout, err)
		}
		c.AuthTimeoutSeconds = secs
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.RedirectPort == 0 {
		c.RedirectPort = DefaultRedirectPort
	}
	if c.RedirectPath == "" {
		c.RedirectPath = DefaultRedirectPath
	}
	if c.Scopes == "" {
		c.Scopes = DefaultScopes
	}
	if c.AuthTimeoutSeconds == 0 {
		c.AuthTimeoutSeconds = DefaultAuthTimeout
	}
}

// ScopeList returns the scopes split on whitespace.
func (c *Config) ScopeList() []string {
	return strings.Fields(c.Scopes)
}

// AuthTimeout returns the browser round-trip timeout as a duration.
func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.AuthTimeoutSeconds) * time.Second
}

// TokenPath returns where the cached token lives.
func (c *Config) TokenPath() string {
	return filepath.Join(c.configDir, tokenFileName)
}

// Dir returns the config directory this configuration was loaded from.
func (c *Config) Dir() string {
	return c.configDir
}
