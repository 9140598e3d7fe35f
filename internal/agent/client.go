// Package agent implements a diagnostic MCP client: it obtains an
// access token via the client-credentials grant, connects to a running
// server over streamable HTTP, performs the protocol handshake, and
// exercises tools/list and tools/call. Useful to verify a deployment
// end to end from the command line.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lineage/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/oauth2/clientcredentials"
)

const requestTimeout = 30 * time.Second

// Config holds the connection parameters of the diagnostic client.
type Config struct {
	// Endpoint is the MCP endpoint URL, e.g. http://localhost:8090/mcp.
	Endpoint string

	// TokenURL is the OAuth2 token endpoint.
	TokenURL string

	// ClientID and ClientSecret authenticate the client-credentials grant.
	ClientID     string
	ClientSecret string

	// Scopes to request; empty requests the client's full grant.
	Scopes []string
}

// Client is a connected diagnostic session.
type Client struct {
	cfg Config
	mcp *client.Client
}

// Connect fetches a token, opens the transport, and performs the MCP
// initialize handshake.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	logging.Debug("Agent", "Obtained access token (scopes: %s)", token.Extra("scope"))

	httpClient, err := client.NewStreamableHttpClient(cfg.Endpoint,
		transport.WithHTTPHeaders(map[string]string{
			"Authorization": "Bearer " + token.AccessToken,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	if err := httpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP transport: %w", err)
	}

	c := &Client{cfg: cfg, mcp: httpClient}
	if err := c.initialize(ctx); err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return c, nil
}

// Close terminates the session.
func (c *Client) Close() {
	c.mcp.Close()
}

func (c *Client) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = "2025-03-26"
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "lineage-agent",
		Version: "1.0.0",
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := c.mcp.Initialize(timeoutCtx, req)
	if err != nil {
		return err
	}
	logging.Info("Agent", "Connected to %s %s (protocol %s)",
		result.ServerInfo.Name, result.ServerInfo.Version, result.ProtocolVersion)
	return nil
}

// ListTools fetches and returns the server's tool names.
func (c *Client) ListTools(ctx context.Context) ([]string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := c.mcp.ListTools(timeoutCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list failed: %w", err)
	}

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

// CallTool executes a tool and returns its text content. A tool-level
// failure (isError) is reported as an error carrying the failure text.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := c.mcp.CallTool(timeoutCtx, req)
	if err != nil {
		return "", fmt.Errorf("tools/call %s failed: %w", name, err)
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if result.IsError {
		return "", fmt.Errorf("tool %s reported failure: %s", name, text)
	}
	return text, nil
}

// ParseArgs parses a JSON object string into a tool argument map. An
// empty string is an empty argument map.
func ParseArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}
