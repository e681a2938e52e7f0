package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sesame-cli/internal/logger"
)

// Ensure LoginService implements the interface.
var _ driving.LoginService = (*LoginService)(nil)

// DefaultAuthTimeout bounds the wait for the browser round trip.
const DefaultAuthTimeout = 120 * time.Second

// ListenerFactory creates a callback listener for one flow attempt.
// A fresh listener per attempt keeps the single-result contract simple.
type ListenerFactory func(preferredPort int, path string) driven.CallbackListener

// LoginConfig holds the endpoint and flow settings for a LoginService.
// It is immutable for the lifetime of the service.
type LoginConfig struct {
	ClientID     string
	Endpoints    domain.Endpoints
	Scopes       []string
	RedirectPort int
	RedirectPath string
	AuthTimeout  time.Duration
}

// LoginService orchestrates one browser-based PKCE authentication
// attempt: parameter generation, callback listening, browser handoff,
// state validation, code exchange, and token persistence.
type LoginService struct {
	cfg         LoginConfig
	store       driven.TokenStore
	browser     driven.Browser
	exchanger   driven.CodeExchanger
	newListener ListenerFactory
	out         io.Writer
}

// NewLoginService validates the configuration and wires the service.
// A missing client ID or endpoint URL fails here, before any network
// activity, with domain.ErrInvalidConfig.
func NewLoginService(
	cfg LoginConfig,
	store driven.TokenStore,
	browser driven.Browser,
	exchanger driven.CodeExchanger,
	newListener ListenerFactory,
) (*LoginService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client ID is required", domain.ErrInvalidConfig)
	}
	if cfg.Endpoints.AuthorizeURL == "" || cfg.Endpoints.TokenURL == "" {
		return nil, fmt.Errorf("%w: provider endpoints are required", domain.ErrInvalidConfig)
	}
	if cfg.RedirectPath == "" {
		cfg.RedirectPath = "/callback"
	}
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = DefaultAuthTimeout
	}

	return &LoginService{
		cfg:         cfg,
		store:       store,
		browser:     browser,
		exchanger:   exchanger,
		newListener: newListener,
		out:         os.Stdout,
	}, nil
}

// SetOutput redirects user-facing messages. Defaults to os.Stdout.
func (s *LoginService) SetOutput(w io.Writer) {
	s.out = w
}

// Login returns a valid cached token when one exists, otherwise runs a
// full interactive flow.
func (s *LoginService) Login(ctx context.Context) (*domain.Token, error) {
	if tok, err := s.store.Load(ctx); err == nil && tok != nil {
		logger.Debug("using cached token, expires at %s", tok.ExpiresAt.Format(time.RFC3339))
		return tok, nil
	}
	return s.Authenticate(ctx)
}

// Authenticate runs one end-to-end interactive flow. The sequence is
// linear with no retries; every failure is a terminal state the caller
// can inspect with errors.Is.
func (s *LoginService) Authenticate(ctx context.Context) (*domain.Token, error) {
	params, err := generatePKCEParams()
	if err != nil {
		return nil, fmt.Errorf("generate PKCE parameters: %w", err)
	}
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	lst := s.newListener(s.cfg.RedirectPort, s.cfg.RedirectPath)
	if err := lst.Start(); err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer func() {
		if err := lst.Close(); err != nil {
			logger.Warn("callback listener close: %v", err)
		}
	}()

	redirectURI := lst.RedirectURI()
	if lst.Port() != s.cfg.RedirectPort {
		logger.Info("preferred port %d unavailable, callback bound to %d", s.cfg.RedirectPort, lst.Port())
	}

	authURL := s.authCodeURL(redirectURI, state, params)

	fmt.Fprintln(s.out, "Opening browser for authentication...")
	fmt.Fprintf(s.out, "\nIf the browser doesn't open automatically, visit:\n%s\n\n", authURL)
	if err := s.browser.Open(authURL); err != nil {
		logger.Warn("could not open browser: %v", err)
		fmt.Fprintln(s.out, "Could not open a browser, please use the URL above.")
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.AuthTimeout)
	defer cancel()

	result, err := lst.Await(waitCtx)
	if err != nil {
		return nil, err
	}
	if result.Denied() {
		return nil, &domain.DeniedError{Reason: result.Err}
	}

	// The exchange must not run unless the echoed state matches.
	if subtle.ConstantTimeCompare([]byte(result.State), []byte(state)) != 1 {
		return nil, domain.ErrStateMismatch
	}

	token, err := s.exchanger.Exchange(waitCtx, result.Code, redirectURI, params.CodeVerifier)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Save(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return stored, nil
}

// Cached returns the valid cached token, or nil when there is none.
func (s *LoginService) Cached(ctx context.Context) (*domain.Token, error) {
	return s.store.Load(ctx)
}

// Logout removes the cached token.
func (s *LoginService) Logout(ctx context.Context) error {
	return s.store.Delete(ctx)
}

// authCodeURL builds the authorization URL with the PKCE challenge.
func (s *LoginService) authCodeURL(redirectURI, state string, params domain.PKCEParams) string {
	cfg := &oauth2.Config{
		ClientID:    s.cfg.ClientID,
		RedirectURL: redirectURI,
		Scopes:      s.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.Endpoints.AuthorizeURL,
			TokenURL: s.cfg.Endpoints.TokenURL,
		},
	}
	return cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", params.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", params.Method),
	)
}
