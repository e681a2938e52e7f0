package domain

import (
	"fmt"
	"strings"
)

// Endpoints are the OAuth endpoint URLs for one provider. They are
// immutable for the lifetime of a login service instance.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	JWKSURL      string
}

// DeriveEndpoints computes OAuth endpoints from a provider base URL.
// Known provider hosts get their conventional layouts; anything else is
// treated as a generic OIDC base with /authorize and /token suffixes.
// This is string derivation only, no discovery document is fetched.
func DeriveEndpoints(baseURL, clientID string) Endpoints {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	var oidcBase string
	switch {
	case strings.Contains(base, "duosecurity.com"):
		// Duo admin API hosts look like api-<tenant>.duosecurity.com;
		// the SSO endpoints live on sso-<tenant>.sso.duosecurity.com
		// under a per-application OIDC path.
		if tenant := duoTenant(base); tenant != "" {
			oidcBase = fmt.Sprintf("https://sso-%s.sso.duosecurity.com/oidc/%s", tenant, clientID)
		} else {
			oidcBase = base
		}
	case strings.Contains(base, "login.microsoftonline.com"):
		tenant := "common"
		if idx := strings.LastIndex(base, "/"); idx >= 0 && !strings.HasSuffix(base[idx:], "microsoftonline.com") {
			tenant = base[idx+1:]
		}
		oidcBase = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0", tenant)
	case strings.Contains(base, "accounts.google.com"):
		oidcBase = "https://accounts.google.com"
	case strings.Contains(base, "github.com"):
		oidcBase = "https://github.com/login/oauth"
	default:
		oidcBase = base
	}

	return Endpoints{
		AuthorizeURL: oidcBase + "/authorize",
		TokenURL:     oidcBase + "/token",
		JWKSURL:      oidcBase + "/jwks",
	}
}

// duoTenant extracts the tenant identifier from an api-<tenant> Duo host.
func duoTenant(base string) string {
	_, after, found := strings.Cut(base, "api-")
	if !found {
		return ""
	}
	tenant, _, _ := strings.Cut(after, ".")
	return tenant
}
