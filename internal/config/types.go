package config

// Config is the top-level configuration structure for lineage.
type Config struct {
	Server Server `yaml:"server"`
	OAuth  OAuth  `yaml:"oauth"`
	Store  Store  `yaml:"store"`
	Gedbas Gedbas `yaml:"gedbas"`
}

// Server configures the HTTP listener and the identity reported by the
// MCP initialize handshake.
type Server struct {
	Host    string `yaml:"host,omitempty"`    // Host to bind to (default: localhost)
	Port    int    `yaml:"port,omitempty"`    // Port for the API endpoint (default: 8090)
	Name    string `yaml:"name,omitempty"`    // Server name reported to MCP clients
	Version string `yaml:"version,omitempty"` // Server version reported to MCP clients
}

// OAuth configures token issuance and the on-disk client/token stores.
type OAuth struct {
	DataDir            string `yaml:"dataDir,omitempty"`            // Directory for clients.json, tokens.json, and the signing keys
	ExpirationInterval string `yaml:"expirationInterval,omitempty"` // Lifetime of protocol-issued tokens (15m, 1h, 1mo, 1y)
}

// Store configures the genealogical record backend. An empty URL selects
// the in-memory store.
type Store struct {
	URL string `yaml:"url,omitempty"`
}

// Gedbas configures the external GEDBAS integration. An empty URL
// disables it.
type Gedbas struct {
	URL string `yaml:"url,omitempty"`
}
