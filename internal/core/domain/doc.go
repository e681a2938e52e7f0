// Package domain contains the core types and errors for the sesame
// authentication flow: PKCE parameters, callback results, tokens, and
// provider endpoint derivation. It has no dependencies on adapters.
package domain
