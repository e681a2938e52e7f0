package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

var (
	loginForce     bool
	loginNoBrowser bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate via the browser",
	Long: `Authenticate against the configured OIDC provider.

Opens the default browser for the provider's consent screen and waits
for the redirect on a local loopback port. A valid cached token is
reused unless --force is given.

Examples:
  sesame login
  sesame login --force
  sesame login --no-browser   # print the URL instead of opening a browser`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "ignore any cached token and re-authenticate")
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "do not launch a browser, print the URL only")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	svc, err := requireLoginService(loginNoBrowser)
	if err != nil {
		return err
	}

	spin := waitSpinner()
	if spin != nil {
		spin.Start()
	}

	var token *domain.Token
	if loginForce {
		token, err = svc.Authenticate(cmd.Context())
	} else {
		token, err = svc.Login(cmd.Context())
	}

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return loginError(err)
	}

	cmd.Printf("Authenticated. Token valid until %s.\n", token.ExpiresAt.Format(time.RFC1123))
	return nil
}

// waitSpinner returns a spinner for interactive terminals, nil otherwise.
func waitSpinner() *spinner.Spinner {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Waiting for authentication..."
	return s
}

// loginError maps flow failures onto actionable messages.
func loginError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthTimeout):
		return fmt.Errorf("no response from the browser within the timeout, run 'sesame login' to try again: %w", err)
	case errors.Is(err, domain.ErrAccessDenied):
		return fmt.Errorf("the provider rejected the authorization request: %w", err)
	case errors.Is(err, domain.ErrStateMismatch):
		return fmt.Errorf("the callback did not match this login attempt, run 'sesame login' to try again: %w", err)
	default:
		return err
	}
}
