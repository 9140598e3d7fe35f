package oauth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStore_AddRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")

	store, err := NewClientStore(path)
	require.NoError(t, err)

	client, err := NewClient("c1", "Client One", "secret", []Scope{ScopeWrite}, "")
	require.NoError(t, err)
	require.True(t, store.Add(client))

	t.Run("duplicate identifier rejected", func(t *testing.T) {
		dup, err := NewClient("c1", "Other Name", "x", nil, "")
		require.NoError(t, err)
		assert.False(t, store.Add(dup))
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		dup, err := NewClient("c2", "Client One", "x", nil, "")
		require.NoError(t, err)
		assert.False(t, store.Add(dup))
	})

	t.Run("survives reload", func(t *testing.T) {
		reloaded, err := NewClientStore(path)
		require.NoError(t, err)
		got := reloaded.Lookup("c1")
		require.NotNil(t, got)
		assert.Equal(t, "Client One", got.Name)
		assert.True(t, got.ValidateSecret("secret"))
		assert.False(t, got.ValidateSecret("wrong"))
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, store.Remove("c1"))
		assert.False(t, store.Remove("c1"))
		assert.Nil(t, store.Lookup("c1"))
	})
}

func TestClientStore_Validate(t *testing.T) {
	store, err := NewClientStore(filepath.Join(t.TempDir(), "clients.json"))
	require.NoError(t, err)

	client, err := NewClient("c1", "Client One", "secret", []Scope{ScopeWrite}, "")
	require.NoError(t, err)
	require.True(t, store.Add(client))

	assert.True(t, store.Validate("c1", "secret", GrantClientCredentials))
	assert.False(t, store.Validate("c1", "wrong", GrantClientCredentials))
	assert.False(t, store.Validate("c1", "secret", "authorization_code"))
	assert.False(t, store.Validate("missing", "secret", GrantClientCredentials))
}

func TestTokenStore_PersistAndDuplicate(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, err)

	token := &AccessToken{ID: "t1", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Persist(token))

	err = store.Persist(&AccessToken{ID: "t1", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrTokenDuplicate)
}

func TestTokenStore_RevokeIsIdempotent(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, err)

	token := &AccessToken{ID: "t1", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Persist(token))

	store.Revoke("t1")
	assert.True(t, store.IsRevoked("t1"))
	store.Revoke("t1")
	assert.True(t, store.IsRevoked("t1"))

	// Revoking an unknown identifier is a no-op.
	store.Revoke("missing")
	assert.False(t, store.IsRevoked("missing"))
}

func TestTokenStore_PurgesExpiredOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	store, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Persist(&AccessToken{ID: "live", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Persist(&AccessToken{ID: "dead", ClientID: "c1", ExpiresAt: time.Now().Add(-time.Hour)}))

	reloaded, err := NewTokenStore(path)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Lookup("live"))
	assert.Nil(t, reloaded.Lookup("dead"))
}

func TestTokenStore_ForClientSkipsExpired(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, err)

	require.NoError(t, store.Persist(&AccessToken{ID: "a", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Persist(&AccessToken{ID: "b", ClientID: "c1", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Persist(&AccessToken{ID: "c", ClientID: "c2", ExpiresAt: time.Now().Add(time.Hour)}))

	got := store.ForClient("c1")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestKeys_LoadOrCreateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	created, err := LoadOrCreateKeys(dir)
	require.NoError(t, err)

	loaded, err := LoadOrCreateKeys(dir)
	require.NoError(t, err)
	assert.True(t, created.Private.Equal(loaded.Private))

	rotated, err := RotateKeys(dir)
	require.NoError(t, err)
	assert.False(t, created.Private.Equal(rotated.Private))
}
