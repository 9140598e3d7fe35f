package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the lineage application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Genealogical record API and MCP server",
	Long: `lineage exposes a genealogical record store through a REST CRUD API
and a JSON-RPC Model Context Protocol (MCP) tool-calling interface,
both guarded by OAuth2 client-credentials scopes.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// configPath specifies a custom configuration directory path.
var configPath string

// SetVersion sets the version for the root command. Typically called
// from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "lineage version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "",
		"Directory containing config.yaml (default: ~/.config/lineage)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newClientCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newAgentCmd())
}
