// Package browser opens URLs in the user's default browser.
package browser

import (
	"errors"

	"github.com/skratchdot/open-golang/open"

	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
)

// Ensure the adapters implement the port.
var (
	_ driven.Browser = (*Opener)(nil)
	_ driven.Browser = (*Null)(nil)
)

// Opener launches the system default browser.
type Opener struct{}

// NewOpener creates a browser opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open starts the default browser at url.
func (o *Opener) Open(url string) error {
	return open.Start(url)
}

// ErrNoBrowser is returned by Null; callers fall back to printing the
// URL for manual navigation.
var ErrNoBrowser = errors.New("browser launch disabled")

// Null never opens a browser, for headless sessions where the user
// copies the URL to another device.
type Null struct{}

// NewNull creates a browser adapter that refuses to open anything.
func NewNull() *Null {
	return &Null{}
}

// Open always fails with ErrNoBrowser.
func (n *Null) Open(string) error {
	return ErrNoBrowser
}
