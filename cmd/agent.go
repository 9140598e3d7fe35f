package cmd

import (
	"fmt"
	"os"
	"strings"

	"lineage/internal/agent"
	"lineage/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	agentEndpoint     string
	agentTokenURL     string
	agentClientID     string
	agentClientSecret string
	agentScopes       []string
	agentArgs         string
	agentVerbose      bool
)

// newAgentCmd creates the diagnostic MCP client command group.
func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Diagnostic MCP client for a running server",
		Long: `Connects to a running server as an MCP client: obtains an access
token via the client-credentials grant, performs the protocol
handshake, and then lists or calls tools. Useful to verify a
deployment end to end.`,
	}

	cmd.PersistentFlags().StringVar(&agentEndpoint, "endpoint", "http://localhost:8090/mcp", "MCP endpoint URL")
	cmd.PersistentFlags().StringVar(&agentTokenURL, "token-url", "http://localhost:8090/oauth/token", "OAuth2 token endpoint URL")
	cmd.PersistentFlags().StringVar(&agentClientID, "client-id", "", "OAuth2 client identifier (required)")
	cmd.PersistentFlags().StringVar(&agentClientSecret, "client-secret", "", "OAuth2 client secret (required)")
	cmd.PersistentFlags().StringSliceVar(&agentScopes, "scope", nil, "Scopes to request (default: the client's full grant)")
	cmd.PersistentFlags().BoolVar(&agentVerbose, "verbose", false, "Enable debug logging")
	cmd.MarkPersistentFlagRequired("client-id")
	cmd.MarkPersistentFlagRequired("client-secret")

	listTools := &cobra.Command{
		Use:   "list-tools",
		Short: "List the tools exposed by the server",
		Args:  cobra.NoArgs,
		RunE:  runAgentListTools,
	}

	call := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call a tool and print its result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentCall,
	}
	call.Flags().StringVar(&agentArgs, "args", "", "Tool arguments as a JSON object")

	cmd.AddCommand(listTools, call)
	return cmd
}

func agentConnect(cmd *cobra.Command) (*agent.Client, error) {
	level := logging.LevelInfo
	if agentVerbose {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	return agent.Connect(cmd.Context(), agent.Config{
		Endpoint:     agentEndpoint,
		TokenURL:     agentTokenURL,
		ClientID:     agentClientID,
		ClientSecret: agentClientSecret,
		Scopes:       agentScopes,
	})
}

func runAgentListTools(cmd *cobra.Command, args []string) error {
	c, err := agentConnect(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	names, err := c.ListTools(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	return nil
}

func runAgentCall(cmd *cobra.Command, args []string) error {
	toolArgs, err := agent.ParseArgs(agentArgs)
	if err != nil {
		return err
	}

	c, err := agentConnect(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	text, err := c.CallTool(cmd.Context(), args[0], toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
