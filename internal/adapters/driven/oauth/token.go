// Package oauth exchanges authorization codes for tokens against the
// provider's token endpoint.
package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
)

// Ensure Exchanger implements the port.
var _ driven.CodeExchanger = (*Exchanger)(nil)

// maxErrorBody bounds how much of an error response we keep for
// diagnostics.
const maxErrorBody = 4 << 10

// Exchanger redeems authorization codes at a token endpoint. It is a
// public client: the PKCE verifier is the only proof of possession, no
// client secret is ever sent.
type Exchanger struct {
	tokenURL   string
	clientID   string
	httpClient *http.Client
}

// NewExchanger creates an exchanger for the given token endpoint.
func NewExchanger(tokenURL, clientID string) *Exchanger {
	return &Exchanger{
		tokenURL: tokenURL,
		clientID: clientID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient replaces the HTTP client, mainly for tests.
func (e *Exchanger) SetHTTPClient(client *http.Client) {
	e.httpClient = client
}

// Exchange posts the authorization code and code verifier to the token
// endpoint and parses the resulting token. Any non-2xx response becomes
// a domain.ExchangeError carrying the status and body.
func (e *Exchanger) Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {e.clientID},
		"redirect_uri":  {redirectURI},
		"code_verifier": {codeVerifier},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTokenExchange, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ExchangeError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	return parseToken(body)
}

// parseToken maps the provider's JSON response onto a domain token,
// keeping the raw body so provider-specific fields survive persistence.
func parseToken(body []byte) (*domain.Token, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrTokenExchange)
	}

	token := &domain.Token{
		AccessToken: gjson.GetBytes(body, "access_token").String(),
		IDToken:     gjson.GetBytes(body, "id_token").String(),
		TokenType:   gjson.GetBytes(body, "token_type").String(),
		ExpiresIn:   gjson.GetBytes(body, "expires_in").Int(),
		Raw:         body,
	}
	if token.AccessToken == "" && token.IDToken == "" {
		return nil, fmt.Errorf("%w: response carries no token", domain.ErrTokenExchange)
	}
	return token, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
