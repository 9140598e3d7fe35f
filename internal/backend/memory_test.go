package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lineage/internal/oauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberCtx() context.Context {
	return oauth.WithIdentity(context.Background(), oauth.Identity{ClientID: "c1", UserID: "u1"})
}

func anonymousCtx() context.Context {
	return oauth.WithIdentity(context.Background(), oauth.AnonymousIdentity("c1"))
}

func seededStore() *MemoryStore {
	store := NewMemoryStore("2.2.1")
	store.AddTree("demo")
	store.Put("demo", &Record{Xref: "X1", Type: "INDI", Gedcom: "0 @X1@ INDI\n1 NAME John /Doe/"})
	store.Put("demo", &Record{Xref: "X2", Type: "INDI", Gedcom: "0 @X2@ INDI\n1 NAME Jane /Doe/", Private: true})
	return store
}

func TestMemoryStore_PrivateRecordVisibility(t *testing.T) {
	store := seededStore()

	t.Run("member sees private record", func(t *testing.T) {
		body, err := store.GetRecord(memberCtx(), "demo", "X2", "gedcom")
		require.NoError(t, err)
		assert.Contains(t, body, "Jane")
	})

	t.Run("anonymous caller gets not found", func(t *testing.T) {
		_, err := store.GetRecord(anonymousCtx(), "demo", "X2", "gedcom")
		be, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, be.Status)
	})

	t.Run("search filters private records for anonymous callers", func(t *testing.T) {
		member, err := store.Search(memberCtx(), "demo", "doe", "")
		require.NoError(t, err)
		anon, err := store.Search(anonymousCtx(), "demo", "doe", "")
		require.NoError(t, err)

		assert.Contains(t, member, "Jane")
		assert.NotContains(t, anon, "Jane")
		assert.Contains(t, anon, "John")
	})
}

func TestMemoryStore_UnknownTree(t *testing.T) {
	store := seededStore()

	_, err := store.GetRecord(memberCtx(), "nope", "X1", "gedcom")
	be, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, be.Status)
}

func TestMemoryStore_CreateAssignsXrefs(t *testing.T) {
	store := seededStore()

	a, err := store.CreateRecord(memberCtx(), "demo", "NOTE", "1 NOTE a")
	require.NoError(t, err)
	b, err := store.CreateRecord(memberCtx(), "demo", "NOTE", "1 NOTE b")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHTTPStore_ErrorMapping(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/version":
			w.Write([]byte(`{"version":"2.2.1"}`))
		case "/trees":
			http.Error(w, "store offline", http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	store := NewHTTPStore(upstream.URL)

	t.Run("success returns body", func(t *testing.T) {
		body, err := store.Version(context.Background())
		require.NoError(t, err)
		assert.Contains(t, body, "2.2.1")
	})

	t.Run("upstream failure keeps status and reason", func(t *testing.T) {
		_, err := store.Trees(context.Background())
		be, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, be.Status)
		assert.Equal(t, "store offline", be.Reason)
	})

	t.Run("unknown path maps to not found", func(t *testing.T) {
		_, err := store.GetRecord(context.Background(), "demo", "X1", "")
		be, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, be.Status)
	})
}

func TestHTTPGedbas_QueryShape(t *testing.T) {
	var gotPath, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"ids":[]}`))
	}))
	defer upstream.Close()

	gedbas := NewHTTPGedbas(upstream.URL)
	_, err := gedbas.SearchSimple(context.Background(), "Doe", "John", "Berlin")
	require.NoError(t, err)

	assert.Equal(t, "/search/simple", gotPath)
	assert.Contains(t, gotQuery, "lastname=Doe")
	assert.Contains(t, gotQuery, "firstname=John")
	assert.Contains(t, gotQuery, "placename=Berlin")
}
