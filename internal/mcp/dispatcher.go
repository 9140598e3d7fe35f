package mcp

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"lineage/pkg/logging"
)

// Protocol constants.
const (
	JSONRPCVersion = "2.0"

	// LatestProtocolVersion is the newest protocol revision this server
	// speaks; DefaultProtocolVersion is assumed when a client sends none.
	LatestProtocolVersion  = "2025-03-26"
	DefaultProtocolVersion = "2024-11-05"
)

// protocolVersionPattern is the date shape a requested protocol version
// must have to be considered at all.
var protocolVersionPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ServerInfo identifies this server in initialize responses.
type ServerInfo struct {
	Name    string
	Version string
}

// Dispatcher routes normalized invocations through the JSON-RPC
// lifecycle methods to the registered tool handlers and wraps their
// results back into response envelopes.
//
// Dispatch is stateless across requests: the transport holds no session
// or connection state beyond the single request being served.
type Dispatcher struct {
	registry *Registry
	info     ServerInfo
}

// NewDispatcher creates a dispatcher over the given tool registry.
func NewDispatcher(registry *Registry, info ServerInfo) *Dispatcher {
	return &Dispatcher{registry: registry, info: info}
}

// Dispatch handles one invocation for the given tool surface and writes
// the JSON-RPC response. Any uncaught failure is converted at this
// boundary into an internal-error envelope with HTTP status OK — the
// transport must not fail the HTTP call just because the RPC failed.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, inv *Invocation, iface ToolInterface) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("MCP", fmt.Errorf("%v", rec), "Recovered from panic during dispatch")
			WriteInternalError(w, inv.ID, fmt.Sprintf("%v", rec))
		}
	}()

	switch inv.Method {
	case "initialize":
		writeJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": JSONRPCVersion,
			"id":      inv.ID,
			"result": map[string]any{
				"protocolVersion": d.negotiateVersion(inv.ProtocolVersion),
				"capabilities": map[string]any{
					"tools": map[string]any{"listChanged": false},
				},
				"serverInfo": map[string]any{
					"name":    d.info.Name,
					"version": d.info.Version,
				},
			},
		})

	case "notifications/initialized":
		writeJSON(w, http.StatusAccepted, map[string]any{
			"jsonrpc": JSONRPCVersion,
			"id":      inv.ID,
			"result":  nil,
		})

	case "tools/list":
		writeJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": JSONRPCVersion,
			"id":      inv.ID,
			"result": map[string]any{
				"tools": descriptorsOrEmpty(d.registry.Descriptors(iface)),
			},
		})

	case "tools/call":
		d.callTool(w, r, inv, iface)

	default:
		WriteRPCError(w, inv.ID, CodeMethodNotFound, ErrorMessage(CodeMethodNotFound))
	}
}

// callTool looks up and runs a tool handler, translating its result.
// Lookup is confined to the invocation's surface; a name that only
// exists on the other surface is "method not found" here.
func (d *Dispatcher) callTool(w http.ResponseWriter, r *http.Request, inv *Invocation, iface ToolInterface) {
	entry, ok := d.registry.Lookup(iface, inv.Tool)
	if !ok || entry.Handler.Describe() == nil {
		WriteRPCError(w, inv.ID, CodeMethodNotFound, ErrorMessage(CodeMethodNotFound))
		return
	}

	result, err := entry.Handler.Handle(r.Context(), inv)
	if err != nil {
		WriteInternalError(w, inv.ID, err.Error())
		return
	}

	if err := WriteToolResult(w, inv.ID, result); err != nil {
		var se *serverError
		if errors.As(err, &se) {
			WriteInternalError(w, inv.ID, se.reason)
			return
		}
		WriteInternalError(w, inv.ID, err.Error())
	}
}

// negotiateVersion validates a requested protocol version. A malformed
// version or any version other than the latest supported one degrades to
// the latest version; mismatches are never an error.
func (d *Dispatcher) negotiateVersion(requested string) string {
	if requested == "" {
		requested = DefaultProtocolVersion
	}
	if !protocolVersionPattern.MatchString(requested) {
		return LatestProtocolVersion
	}
	if requested != LatestProtocolVersion {
		return LatestProtocolVersion
	}
	return requested
}

// descriptorsOrEmpty keeps tools/list emitting [] instead of null.
func descriptorsOrEmpty(ds []*Descriptor) []*Descriptor {
	if ds == nil {
		return []*Descriptor{}
	}
	return ds
}
