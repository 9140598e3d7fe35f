// Package mcp implements the protocol-dispatch core: the transport
// normalizer that reduces REST and JSON-RPC requests to one Invocation
// shape, the per-request dispatcher for the JSON-RPC lifecycle methods
// (initialize, notifications/initialized, tools/list, tools/call), the
// static tool registry with its two tool surfaces, and the translator
// that turns HTTP-shaped handler results into tools/call envelopes.
//
// Error contract: transport-shape and auth failures are rejected with
// real HTTP error statuses before dispatch begins; everything from
// unknown methods to handler failures to panics is reported inside a
// JSON-RPC envelope with HTTP status OK.
package mcp
