package server

import (
	"errors"
	"io"
	"net/http"

	"lineage/internal/mcp"
	"lineage/internal/oauth"
	"lineage/pkg/logging"

	"github.com/go-chi/chi/v5"
)

// handleREST serves one REST tool operation: authenticate, resolve the
// tool, gate by scope, normalize the request, run the handler, and write
// its HTTP-shaped result straight through.
func (s *Server) handleREST(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "tool")
	entry, found := s.registry.Lookup(mcp.ToolInterfaceStandard, name)
	if !found {
		entry, found = s.registry.Lookup(mcp.ToolInterfaceGedbas, name)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Unknown operation")
		return
	}

	if !oauth.Allow(entry.RESTCategory, token.Scopes) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	identity := token.Identity()
	if oauth.DowngradeToAnonymous(entry.RESTCategory, token.Scopes) {
		identity = oauth.AnonymousIdentity(token.ClientID)
	}
	ctx := oauth.WithIdentity(r.Context(), identity)

	inv, err := mcp.NormalizeREST(r, name)
	if err != nil {
		if errors.Is(err, mcp.ErrParse) {
			writeError(w, http.StatusBadRequest, "Malformed JSON body")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read request")
		return
	}
	inv.Scopes = token.Scopes

	result, err := entry.Handler.Handle(ctx, inv)
	if err != nil {
		logging.Error("Server", err, "Operation %s failed", name)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if result.Status < 200 || result.Status > 299 {
		writeError(w, result.Status, result.Reason)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(result.Status)
	if result.Body != nil {
		io.Copy(w, result.Body)
	}
}
