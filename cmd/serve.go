package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"lineage/internal/backend"
	"lineage/internal/config"
	"lineage/internal/oauth"
	"lineage/internal/server"
	"lineage/pkg/logging"

	"github.com/spf13/cobra"
)

var serveDebug bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lineage API and MCP server",
		Long: `Starts the HTTP server exposing the REST record API under /api,
the MCP tool surfaces at /mcp and /gedbas/mcp, and the OAuth2 token
endpoint at /oauth/token.

Configuration is read from config.yaml in the configuration directory
(default: ~/.config/lineage). Without a configured record store URL an
in-memory store is used, which is only useful for local development.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clients, tokens, keys, err := openOAuthStores(cfg)
	if err != nil {
		return err
	}

	auth := oauth.NewAuthenticator(keys, tokens)
	issuer := oauth.NewIssuer(keys)
	tokenHandler := oauth.NewTokenHandler(clients, tokens, issuer, cfg.OAuth.ExpirationInterval)

	var store backend.Store
	if cfg.Store.URL != "" {
		store = backend.NewHTTPStore(cfg.Store.URL)
	} else {
		logging.Warn("Serve", "No record store URL configured, using in-memory store")
		store = backend.NewMemoryStore(rootCmd.Version)
	}

	var gedbas backend.Gedbas
	if cfg.Gedbas.URL != "" {
		gedbas = backend.NewHTTPGedbas(cfg.Gedbas.URL)
	} else {
		gedbas = &backend.MemoryGedbas{}
	}

	srv := server.New(cfg, store, gedbas, auth, tokenHandler)
	return srv.ListenAndServe()
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}
	return config.LoadConfig(path)
}

// openOAuthStores opens the client store, token store, and signing keys
// in the configured data directory.
func openOAuthStores(cfg config.Config) (*oauth.ClientStore, *oauth.TokenStore, *oauth.KeyPair, error) {
	dataDir := cfg.OAuth.DataDir

	clients, err := oauth.NewClientStore(filepath.Join(dataDir, "clients.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open client store: %w", err)
	}
	tokens, err := oauth.NewTokenStore(filepath.Join(dataDir, "tokens.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open token store: %w", err)
	}
	keys, err := oauth.LoadOrCreateKeys(dataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load signing keys: %w", err)
	}
	return clients, tokens, keys, nil
}
