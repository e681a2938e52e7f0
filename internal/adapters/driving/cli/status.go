package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show whether a valid cached token exists and when it expires.

Exits non-zero when not authenticated, so the command can gate scripts.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	svc, err := requireLoginService(false)
	if err != nil {
		return err
	}

	token, err := svc.Cached(cmd.Context())
	if err != nil {
		return err
	}
	if token == nil {
		cmd.Println("Not authenticated. Run 'sesame login'.")
		return domain.ErrNotAuthenticated
	}

	cmd.Printf("Authenticated. Token valid until %s (%s remaining).\n",
		token.ExpiresAt.Format(time.RFC1123),
		time.Until(token.ExpiresAt).Round(time.Second))
	return nil
}
