package cmd

import (
	"fmt"

	"lineage/internal/oauth"

	"github.com/spf13/cobra"
)

// newKeysCmd creates the signing key management command group.
func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the token signing keypair",
	}

	rotate := &cobra.Command{
		Use:   "rotate",
		Short: "Generate a new signing keypair",
		Long: `Replaces the RSA keypair used to sign access tokens. All tokens
signed with the previous key fail verification immediately; issue new
tokens after rotating.`,
		Args: cobra.NoArgs,
		RunE: runKeysRotate,
	}

	cmd.AddCommand(rotate)
	return cmd
}

func runKeysRotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := oauth.RotateKeys(cfg.OAuth.DataDir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rotated signing keypair in %s\n", cfg.OAuth.DataDir)
	return nil
}
