package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the cached bearer token",
	Long: `Print the cached bearer token to stdout, for piping into other
tools:

  curl -H "Authorization: Bearer $(sesame token)" https://api.example.com

Exits non-zero when no valid token is cached.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	svc, err := requireLoginService(false)
	if err != nil {
		return err
	}

	token, err := svc.Cached(cmd.Context())
	if err != nil {
		return err
	}
	if token == nil || token.Bearer() == "" {
		return domain.ErrNotAuthenticated
	}

	cmd.Println(token.Bearer())
	return nil
}
