package driven

// Browser opens a URL in the user's default browser.
// Implementations must not block on the page being loaded; failure to
// open is not fatal to the flow, the URL is always surfaced for manual
// navigation as a fallback.
type Browser interface {
	Open(url string) error
}
