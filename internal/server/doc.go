// Package server exposes the tool operations over HTTP: the REST
// surface under /api, the JSON-RPC MCP surfaces at /mcp and /gedbas/mcp,
// and the OAuth2 token endpoint at /oauth/token.
//
// Authentication and scope gating run before any dispatch. Transport
// failures (missing token, insufficient scope, malformed body) produce
// real HTTP error statuses; once a JSON-RPC request is dispatched, all
// further failures are reported inside the RPC envelope with HTTP 200.
package server
