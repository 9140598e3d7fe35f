package server

import (
	"errors"
	"io"
	"net/http"

	"lineage/internal/mcp"
	"lineage/internal/oauth"
)

// surfaceCategory is the scope gate for a whole MCP surface. Lifecycle
// methods (initialize, tools/list) carry no tool name, so the gate runs
// per surface; tools/call additionally checks the entry's own category.
func surfaceCategory(iface mcp.ToolInterface) oauth.Category {
	if iface == mcp.ToolInterfaceGedbas {
		return oauth.CategoryGedbas
	}
	return oauth.CategoryMcpRead
}

// handleMCP serves one JSON-RPC request on the given tool surface.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request, iface mcp.ToolInterface) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !oauth.Allow(surfaceCategory(iface), token.Scopes) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read request")
		return
	}

	inv, err := mcp.NormalizeJSONRPC(body)
	if err != nil {
		if errors.Is(err, mcp.ErrParse) {
			mcp.WriteParseError(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read request")
		return
	}
	inv.Scopes = token.Scopes

	if inv.Method == "tools/call" {
		entry, found := s.registry.Lookup(iface, inv.Tool)
		if found && entry.MCPCategory != oauth.CategoryUnknown {
			if !oauth.Allow(entry.MCPCategory, token.Scopes) {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
		}
		// Unknown names and tools without an MCP category fall through to
		// the dispatcher, which reports method-not-found inside the RPC
		// envelope.
	}

	ctx := oauth.WithIdentity(r.Context(), token.Identity())
	s.dispatcher.Dispatch(w, r.WithContext(ctx), inv, iface)
}
