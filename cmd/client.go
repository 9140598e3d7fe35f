package cmd

import (
	"fmt"
	"strings"

	"lineage/internal/oauth"

	"github.com/spf13/cobra"
)

var (
	clientName     string
	clientSecret   string
	clientScopes   []string
	clientTechUser string
)

// newClientCmd creates the client management command group.
func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage registered OAuth2 clients",
	}

	add := &cobra.Command{
		Use:   "add <client-id>",
		Short: "Register a new OAuth2 client",
		Long: `Registers a confidential client for the client-credentials grant.
The secret is stored as a hash only; it cannot be recovered later.

Editing a client is remove-then-add: clients are never mutated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runClientAdd,
	}
	add.Flags().StringVar(&clientName, "name", "", "Unique display name (required)")
	add.Flags().StringVar(&clientSecret, "secret", "", "Client secret (required)")
	add.Flags().StringSliceVar(&clientScopes, "scope", nil, "Granted scopes (repeatable)")
	add.Flags().StringVar(&clientTechUser, "technical-user", "", "Technical user attributed to record operations")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("secret")

	remove := &cobra.Command{
		Use:   "remove <client-id>",
		Short: "Remove a registered client",
		Args:  cobra.ExactArgs(1),
		RunE:  runClientRemove,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered clients",
		Args:  cobra.NoArgs,
		RunE:  runClientList,
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}

func runClientAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	clients, _, _, err := openOAuthStores(cfg)
	if err != nil {
		return err
	}

	scopes := oauth.ScopesFromStrings(clientScopes)
	if len(scopes) != len(clientScopes) {
		return fmt.Errorf("unknown scope in %v (allowed: %v)",
			clientScopes, oauth.ScopeStrings(oauth.AllScopes()))
	}

	client, err := oauth.NewClient(args[0], clientName, clientSecret, scopes, clientTechUser)
	if err != nil {
		return err
	}
	if !clients.Add(client) {
		return fmt.Errorf("client identifier or name already exists")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered client %s\n", client.ID)
	return nil
}

func runClientRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	clients, _, _, err := openOAuthStores(cfg)
	if err != nil {
		return err
	}

	if !clients.Remove(args[0]) {
		return fmt.Errorf("no client with identifier %s", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed client %s\n", args[0])
	return nil
}

func runClientList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	clients, _, _, err := openOAuthStores(cfg)
	if err != nil {
		return err
	}

	for _, client := range clients.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
			client.ID, client.Name, strings.Join(oauth.ScopeStrings(client.Scopes), " "))
	}
	return nil
}
