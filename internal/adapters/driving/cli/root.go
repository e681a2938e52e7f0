// Package cli implements the sesame command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	browseradapter "github.com/custodia-labs/sesame-cli/internal/adapters/driven/browser"
	configfile "github.com/custodia-labs/sesame-cli/internal/adapters/driven/config/file"
	oauthclient "github.com/custodia-labs/sesame-cli/internal/adapters/driven/oauth"
	storagefile "github.com/custodia-labs/sesame-cli/internal/adapters/driven/storage/file"
	oauthserver "github.com/custodia-labs/sesame-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/sesame-cli/internal/core/domain"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sesame-cli/internal/core/services"
	"github.com/custodia-labs/sesame-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verboseFlag   bool
	configDirFlag string
)

// loginService is the injected service. When nil, commands build one
// from the user's configuration on first use.
var loginService driving.LoginService

// SetLoginService injects a pre-built login service. Used by tests.
func SetLoginService(svc driving.LoginService) {
	loginService = svc
}

var rootCmd = &cobra.Command{
	Use:   "sesame",
	Short: "Browser-based OIDC authentication for the terminal",
	Long: `Sesame authenticates you against an OIDC provider using the OAuth
Authorization Code flow with PKCE and caches the resulting token locally.

Configure a client_id and base_url in ~/.sesame/config.toml or via the
SESAME_CLIENT_ID and SESAME_BASE_URL environment variables, then run
'sesame login'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default ~/.sesame)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireLoginService returns the injected service or builds one from
// the user's configuration.
func requireLoginService(noBrowser bool) (driving.LoginService, error) {
	if loginService != nil {
		return loginService, nil
	}

	cfg, err := configfile.Load(configDirFlag)
	if err != nil {
		return nil, err
	}

	endpoints := domain.DeriveEndpoints(cfg.BaseURL, cfg.ClientID)
	logger.Debug("derived endpoints: authorize=%s token=%s", endpoints.AuthorizeURL, endpoints.TokenURL)

	exchanger := oauthclient.NewExchanger(endpoints.TokenURL, cfg.ClientID)

	var browser driven.Browser = browseradapter.NewOpener()
	if noBrowser {
		browser = browseradapter.NewNull()
	}

	return services.NewLoginService(
		services.LoginConfig{
			ClientID:     cfg.ClientID,
			Endpoints:    endpoints,
			Scopes:       cfg.ScopeList(),
			RedirectPort: cfg.RedirectPort,
			RedirectPath: cfg.RedirectPath,
			AuthTimeout:  cfg.AuthTimeout(),
		},
		storagefile.NewTokenStore(cfg.TokenPath()),
		browser,
		exchanger,
		func(port int, path string) driven.CallbackListener {
			return oauthserver.NewCallbackServer(port, path)
		},
	)
}
