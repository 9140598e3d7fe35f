package oauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"lineage/pkg/logging"
)

// ClientStore is the persisted collection of registered OAuth2 clients.
//
// Mutations serialize the whole client set and write it back in one step.
// There is no partial-update protocol: the client count is small and
// changes are admin-driven. Concurrent processes mutating the same file
// race last-writer-wins; this is an accepted consistency gap.
type ClientStore struct {
	mu      sync.Mutex
	path    string
	clients []*Client
}

// NewClientStore loads the client set from the given file. A missing file
// is an empty store.
func NewClientStore(path string) (*ClientStore, error) {
	cs := &ClientStore{path: path}
	if err := cs.load(); err != nil {
		return nil, err
	}
	return cs, nil
}

// Add appends a client and persists the set. It returns false without
// persisting when the identifier or the display name is already taken.
func (cs *ClientStore) Add(client *Client) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, existing := range cs.clients {
		if existing.ID == client.ID || existing.Name == client.Name {
			return false
		}
	}
	cs.clients = append(cs.clients, client)
	if err := cs.persist(); err != nil {
		logging.Error("ClientStore", err, "Failed to persist client set")
	}
	return true
}

// Remove deletes the client with the given identifier and persists the
// set. It returns false when no such client exists.
func (cs *ClientStore) Remove(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i, existing := range cs.clients {
		if existing.ID == id {
			cs.clients = append(cs.clients[:i], cs.clients[i+1:]...)
			if err := cs.persist(); err != nil {
				logging.Error("ClientStore", err, "Failed to persist client set")
			}
			return true
		}
	}
	return false
}

// Lookup returns the client with the given identifier, or nil.
func (cs *ClientStore) Lookup(id string) *Client {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, existing := range cs.clients {
		if existing.ID == id {
			return existing
		}
	}
	return nil
}

// All returns the registered clients.
func (cs *ClientStore) All() []*Client {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make([]*Client, len(cs.clients))
	copy(out, cs.clients)
	return out
}

// Validate checks client credentials for a token request. It returns true
// only if the client exists, the secret matches the stored hash, the
// grant type is supported, and the client is confidential.
func (cs *ClientStore) Validate(id, secret, grantType string) bool {
	client := cs.Lookup(id)
	return client != nil &&
		client.ValidateSecret(secret) &&
		client.SupportsGrantType(grantType) &&
		client.Confidential
}

func (cs *ClientStore) load() error {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		if os.IsNotExist(err) {
			cs.clients = nil
			return nil
		}
		return fmt.Errorf("failed to read client store %s: %w", cs.path, err)
	}

	var clients []*Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return fmt.Errorf("failed to parse client store %s: %w", cs.path, err)
	}
	cs.clients = clients
	return nil
}

func (cs *ClientStore) persist() error {
	return writeFileAtomic(cs.path, cs.clients)
}

// writeFileAtomic serializes v as JSON and replaces path in one rename so
// a crashed write never leaves a truncated store behind.
func writeFileAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
