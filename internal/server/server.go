package server

import (
	"fmt"
	"net/http"
	"time"

	"lineage/internal/backend"
	"lineage/internal/config"
	"lineage/internal/mcp"
	"lineage/internal/oauth"
	"lineage/internal/tools"
	"lineage/pkg/logging"

	"github.com/go-chi/chi/v5"
)

// Server wires the tool registry, the dispatch core, and the OAuth2
// subsystem into one HTTP surface.
type Server struct {
	cfg          config.Config
	registry     *mcp.Registry
	dispatcher   *mcp.Dispatcher
	auth         *oauth.Authenticator
	tokenHandler *oauth.TokenHandler
}

// New assembles a server from its collaborators.
func New(cfg config.Config, store backend.Store, gedbas backend.Gedbas, auth *oauth.Authenticator, tokenHandler *oauth.TokenHandler) *Server {
	registry := mcp.NewRegistry()
	tools.Register(registry, store, gedbas)

	dispatcher := mcp.NewDispatcher(registry, mcp.ServerInfo{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	})

	return &Server{
		cfg:          cfg,
		registry:     registry,
		dispatcher:   dispatcher,
		auth:         auth,
		tokenHandler: tokenHandler,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Post("/oauth/token", s.tokenHandler.ServeHTTP)

	r.HandleFunc("/api/{tool}", s.handleREST)

	r.HandleFunc("/mcp", func(w http.ResponseWriter, req *http.Request) {
		s.handleMCP(w, req, mcp.ToolInterfaceStandard)
	})
	r.HandleFunc("/gedbas/mcp", func(w http.ResponseWriter, req *http.Request) {
		s.handleMCP(w, req, mcp.ToolInterfaceGedbas)
	})

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	logging.Info("Server", "Listening on %s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
