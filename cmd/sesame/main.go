// Command sesame authenticates against an OIDC provider from the
// terminal and caches the resulting token.
package main

import (
	"os"

	"github.com/custodia-labs/sesame-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
