package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"lineage/pkg/logging"
)

// ErrTokenDuplicate is returned when persisting a token whose identifier
// already exists in the store.
var ErrTokenDuplicate = errors.New("access token identifier already exists")

// TokenStore is the persisted collection of issued access tokens.
//
// Like the client store it persists serialize-all/write-all; concurrent
// mutators race last-writer-wins, accepted for admin-frequency writes.
// Loading drops already expired tokens and persists the cleaned set back,
// a lazy garbage-collection pass run once per store construction.
type TokenStore struct {
	mu     sync.Mutex
	path   string
	tokens []*AccessToken
}

// NewTokenStore loads the token set from the given file, purges expired
// tokens, and writes the cleaned set back.
func NewTokenStore(path string) (*TokenStore, error) {
	ts := &TokenStore{path: path}
	if err := ts.load(); err != nil {
		return nil, err
	}
	if err := ts.persist(); err != nil {
		return nil, err
	}
	return ts, nil
}

// Persist adds a newly minted token to the store. Identifiers are
// generated so collisions are cryptographically improbable; hitting one
// anyway is a hard error.
func (ts *TokenStore) Persist(token *AccessToken) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, existing := range ts.tokens {
		if existing.ID == token.ID {
			return fmt.Errorf("could not persist access token %s: %w", token.ID, ErrTokenDuplicate)
		}
	}
	ts.tokens = append(ts.tokens, token)
	return ts.persist()
}

// Lookup returns the token with the given identifier, or nil.
func (ts *TokenStore) Lookup(id string) *AccessToken {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, existing := range ts.tokens {
		if existing.ID == id {
			return existing
		}
	}
	return nil
}

// IsRevoked reports whether the token with the given identifier has been
// revoked. Unknown identifiers are not revoked.
func (ts *TokenStore) IsRevoked(id string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, existing := range ts.tokens {
		if existing.ID == id {
			return existing.Revoked
		}
	}
	return false
}

// Revoke marks the token revoked in place and persists the store.
// Revoking a nonexistent identifier is a no-op.
func (ts *TokenStore) Revoke(id string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, existing := range ts.tokens {
		if existing.ID == id {
			existing.Revoked = true
			if err := ts.persist(); err != nil {
				logging.Error("TokenStore", err, "Failed to persist token set")
			}
			return
		}
	}
}

// ForClient returns the non-expired tokens issued to a client.
func (ts *TokenStore) ForClient(clientID string) []*AccessToken {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	var out []*AccessToken
	for _, existing := range ts.tokens {
		if existing.ClientID == clientID && !existing.Expired(now) {
			out = append(out, existing)
		}
	}
	return out
}

// All returns every token currently in the store.
func (ts *TokenStore) All() []*AccessToken {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]*AccessToken, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}


func (ts *TokenStore) load() error {
	data, err := os.ReadFile(ts.path)
	if err != nil {
		if os.IsNotExist(err) {
			ts.tokens = nil
			return nil
		}
		return fmt.Errorf("failed to read token store %s: %w", ts.path, err)
	}

	var serialized []*AccessToken
	if err := json.Unmarshal(data, &serialized); err != nil {
		return fmt.Errorf("failed to parse token store %s: %w", ts.path, err)
	}

	// Expired tokens are omitted, not re-persisted as revoked.
	now := time.Now()
	var tokens []*AccessToken
	for _, token := range serialized {
		if !token.Expired(now) {
			tokens = append(tokens, token)
		}
	}
	if dropped := len(serialized) - len(tokens); dropped > 0 {
		logging.Debug("TokenStore", "Dropped %d expired tokens on load", dropped)
	}
	ts.tokens = tokens
	return nil
}

func (ts *TokenStore) persist() error {
	return writeFileAtomic(ts.path, ts.tokens)
}
