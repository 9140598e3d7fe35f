package mcp

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONRPC(t *testing.T) {
	t.Run("tools/call envelope", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get-record","arguments":{"tree":"demo","xref":"X1"}}}`
		inv, err := NormalizeJSONRPC([]byte(body))
		require.NoError(t, err)

		assert.Equal(t, "tools/call", inv.Method)
		assert.Equal(t, "get-record", inv.Tool)
		assert.Equal(t, int64(7), inv.ID)
		assert.Equal(t, "demo", inv.StringArg("tree", ""))
		assert.Equal(t, ProtocolJSONRPC, inv.Origin)
	})

	t.Run("initialize carries protocol version", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`
		inv, err := NormalizeJSONRPC([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, "2025-03-26", inv.ProtocolVersion)
	})

	t.Run("missing fields get defaults", func(t *testing.T) {
		inv, err := NormalizeJSONRPC([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, DefaultMethod, inv.Method)
		assert.Equal(t, DefaultToolName, inv.Tool)
		assert.Equal(t, DefaultID, inv.ID)
		assert.NotNil(t, inv.Arguments)
	})

	t.Run("malformed body is a parse error", func(t *testing.T) {
		_, err := NormalizeJSONRPC([]byte(`{broken`))
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integer id", float64(42), int64(42)},
		{"string id", "abc", "abc"},
		{"string matching sentinel collapses", "-1", DefaultID},
		{"empty string collapses", "", DefaultID},
		{"nil collapses", nil, DefaultID},
		{"object collapses", map[string]any{}, DefaultID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.in))
		})
	}
}

func TestNormalizeREST(t *testing.T) {
	t.Run("GET query parameters become arguments", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/get-record?tree=demo&xref=X1", nil)
		inv, err := NormalizeREST(r, "get-record")
		require.NoError(t, err)

		assert.Equal(t, "get-record", inv.Tool)
		assert.Equal(t, "demo", inv.StringArg("tree", ""))
		assert.Equal(t, "X1", inv.StringArg("xref", ""))
		assert.Equal(t, ProtocolREST, inv.Origin)
		assert.Equal(t, DefaultID, inv.ID)
	})

	t.Run("POST body fields merge over query", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/modify-record?tree=demo",
			strings.NewReader(`{"xref":"X1","gedcom":"1 NOTE hi"}`))
		inv, err := NormalizeREST(r, "modify-record")
		require.NoError(t, err)

		assert.Equal(t, "demo", inv.StringArg("tree", ""))
		assert.Equal(t, "X1", inv.StringArg("xref", ""))
		assert.Equal(t, "1 NOTE hi", inv.StringArg("gedcom", ""))
	})

	t.Run("empty POST body is not an error", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/modify-record?tree=demo", nil)
		inv, err := NormalizeREST(r, "modify-record")
		require.NoError(t, err)
		assert.Equal(t, "demo", inv.StringArg("tree", ""))
	})

	t.Run("malformed non-empty POST body fails", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/modify-record", strings.NewReader("{oops"))
		_, err := NormalizeREST(r, "modify-record")
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestStringArg_Coercion(t *testing.T) {
	inv := &Invocation{Arguments: map[string]any{
		"s": "text",
		"i": float64(3),
		"f": float64(2.5),
		"b": true,
	}}

	assert.Equal(t, "text", inv.StringArg("s", ""))
	assert.Equal(t, "3", inv.StringArg("i", ""))
	assert.Equal(t, "2.5", inv.StringArg("f", ""))
	assert.Equal(t, "true", inv.StringArg("b", ""))
	assert.Equal(t, "fallback", inv.StringArg("missing", "fallback"))
}
