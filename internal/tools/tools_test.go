package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"lineage/internal/backend"
	"lineage/internal/mcp"
	"lineage/internal/oauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *backend.MemoryStore {
	t.Helper()
	store := backend.NewMemoryStore("2.2.1")
	store.AddTree("demo")
	store.Put("demo", &backend.Record{Xref: "X1", Type: "INDI", Gedcom: "0 @X1@ INDI\n1 NAME John /Doe/"})
	store.Put("demo", &backend.Record{Xref: "F1", Type: "FAM", Gedcom: "0 @F1@ FAM"})
	return store
}

func memberCtx() context.Context {
	return oauth.WithIdentity(context.Background(), oauth.Identity{ClientID: "c1", UserID: "u1"})
}

func call(t *testing.T, h mcp.Handler, args map[string]any) *mcp.Result {
	t.Helper()
	res, err := h.Handle(memberCtx(), &mcp.Invocation{Tool: "test", Arguments: args})
	require.NoError(t, err)
	return res
}

func bodyJSON(t *testing.T, res *mcp.Result) map[string]any {
	t.Helper()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestRegister_AllToolsPresent(t *testing.T) {
	reg := mcp.NewRegistry()
	Register(reg, testStore(t), &backend.MemoryGedbas{})

	for _, name := range []string{
		"get-record", "get-search-general", "get-trees", "get-version",
		"modify-record", "add-unlinked-record",
		"add-child-to-family", "add-child-to-individual", "add-parent-to-individual",
		"add-spouse-to-family", "add-spouse-to-individual",
		"link-child-to-family", "link-spouse-to-individual",
		"cli-command",
	} {
		_, found := reg.Lookup(mcp.ToolInterfaceStandard, name)
		assert.True(t, found, "missing standard tool %s", name)
	}
	for _, name := range []string{"search-simple", "get-person-data"} {
		_, found := reg.Lookup(mcp.ToolInterfaceGedbas, name)
		assert.True(t, found, "missing gedbas tool %s", name)
	}
}

func TestRegister_Categories(t *testing.T) {
	reg := mcp.NewRegistry()
	Register(reg, testStore(t), &backend.MemoryGedbas{})

	get, _ := reg.Lookup(mcp.ToolInterfaceStandard, "get-record")
	assert.Equal(t, oauth.CategoryRead, get.RESTCategory)
	assert.Equal(t, oauth.CategoryMcpRead, get.MCPCategory)

	modify, _ := reg.Lookup(mcp.ToolInterfaceStandard, "modify-record")
	assert.Equal(t, oauth.CategoryWrite, modify.RESTCategory)
	assert.Equal(t, oauth.CategoryMcpWrite, modify.MCPCategory)

	cli, _ := reg.Lookup(mcp.ToolInterfaceStandard, "cli-command")
	assert.Equal(t, oauth.CategoryCLI, cli.RESTCategory)
	assert.Equal(t, oauth.CategoryUnknown, cli.MCPCategory)
	assert.Nil(t, cli.Handler.Describe())

	gedbas, _ := reg.Lookup(mcp.ToolInterfaceGedbas, "search-simple")
	assert.Equal(t, oauth.CategoryGedbas, gedbas.MCPCategory)
}

func TestGetRecord(t *testing.T) {
	h := &GetRecord{Store: testStore(t)}

	t.Run("found", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "xref": "X1"})
		require.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, "X1", bodyJSON(t, res)["xref"])
	})

	t.Run("gedcom format returns raw text", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "xref": "X1", "format": "gedcom"})
		require.Equal(t, http.StatusOK, res.Status)
		data, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "0 @X1@ INDI")
	})

	t.Run("missing tree", func(t *testing.T) {
		res := call(t, h, map[string]any{"xref": "X1"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("invalid xref", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "xref": "way@too@strange@xref@value"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("invalid format", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "xref": "X1", "format": "xml"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("unknown record", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "xref": "X404"})
		assert.Equal(t, http.StatusNotFound, res.Status)
	})
}

func TestModifyRecord_NormalizesLineBreaks(t *testing.T) {
	store := testStore(t)
	h := &ModifyRecord{Store: store}

	res := call(t, h, map[string]any{
		"tree": "demo", "xref": "X1",
		"gedcom": `1 NOTE first\n1 NOTE second%OA1 NOTE third`,
	})
	require.Equal(t, http.StatusOK, res.Status)

	body, err := store.GetRecord(memberCtx(), "demo", "X1", "gedcom")
	require.NoError(t, err)
	assert.Equal(t, "1 NOTE first\n1 NOTE second\n1 NOTE third", body)
}

func TestAddUnlinkedRecord(t *testing.T) {
	h := &AddUnlinkedRecord{Store: testStore(t)}

	t.Run("creates record", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "record-type": "NOTE"})
		require.Equal(t, http.StatusOK, res.Status)
		assert.NotEmpty(t, bodyJSON(t, res)["xref"])
	})

	t.Run("rejects unknown record type", func(t *testing.T) {
		res := call(t, h, map[string]any{"tree": "demo", "record-type": "WXYZ"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})
}

func TestLink(t *testing.T) {
	store := testStore(t)

	t.Run("add child to family", func(t *testing.T) {
		h := NewLink(store, backend.OpAddChildToFamily)
		res := call(t, h, map[string]any{"tree": "demo", "xref": "F1"})
		assert.Equal(t, http.StatusOK, res.Status)
	})

	t.Run("link child to family needs both xrefs", func(t *testing.T) {
		h := NewLink(store, backend.OpLinkChildToFamily)
		res := call(t, h, map[string]any{"tree": "demo", "individual-xref": "X1"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("link child to family", func(t *testing.T) {
		h := NewLink(store, backend.OpLinkChildToFamily)
		res := call(t, h, map[string]any{
			"tree": "demo", "individual-xref": "X1", "family-xref": "F1", "relationship": "birth",
		})
		assert.Equal(t, http.StatusOK, res.Status)
	})

	t.Run("invalid relationship", func(t *testing.T) {
		h := NewLink(store, backend.OpLinkChildToFamily)
		res := call(t, h, map[string]any{
			"tree": "demo", "individual-xref": "X1", "family-xref": "F1", "relationship": "stepchild",
		})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("unknown op panics at startup", func(t *testing.T) {
		assert.Panics(t, func() { NewLink(store, "no-such-op") })
	})
}

func TestLink_Descriptors(t *testing.T) {
	store := testStore(t)

	add := NewLink(store, backend.OpAddSpouseToFamily).Describe()
	assert.Contains(t, add.InputSchema.Properties, "gedcom")
	assert.NotContains(t, add.InputSchema.Properties, "family-xref")

	link := NewLink(store, backend.OpLinkChildToFamily).Describe()
	assert.Contains(t, link.InputSchema.Properties, "individual-xref")
	assert.Contains(t, link.InputSchema.Properties, "family-xref")
	assert.Contains(t, link.InputSchema.Properties, "relationship")
}

func TestCliCommand(t *testing.T) {
	h := &CliCommand{Store: testStore(t)}

	assert.Nil(t, h.Describe())

	res := call(t, h, map[string]any{"command": "maintenance"})
	assert.Equal(t, http.StatusOK, res.Status)

	res = call(t, h, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestGedbasHandlers(t *testing.T) {
	gedbas := &backend.MemoryGedbas{Persons: map[string]string{"123": `{"id":"123"}`}}

	t.Run("search requires lastname", func(t *testing.T) {
		h := &GedbasSearchSimple{Gedbas: gedbas}
		res := call(t, h, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("search", func(t *testing.T) {
		h := &GedbasSearchSimple{Gedbas: gedbas}
		res := call(t, h, map[string]any{"lastname": "Doe"})
		assert.Equal(t, http.StatusOK, res.Status)
	})

	t.Run("person data validates id", func(t *testing.T) {
		h := &GedbasPersonData{Gedbas: gedbas}
		res := call(t, h, map[string]any{"id": "../etc/passwd"})
		assert.Equal(t, http.StatusBadRequest, res.Status)
	})

	t.Run("person data", func(t *testing.T) {
		h := &GedbasPersonData{Gedbas: gedbas}
		res := call(t, h, map[string]any{"id": "123"})
		require.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, "123", bodyJSON(t, res)["id"])
	})
}

func TestDescriptors_SchemaShapes(t *testing.T) {
	reg := mcp.NewRegistry()
	Register(reg, testStore(t), &backend.MemoryGedbas{})

	descriptors := reg.Descriptors(mcp.ToolInterfaceStandard)
	require.NotEmpty(t, descriptors)

	for _, d := range descriptors {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.InputSchema, d.Name)
		assert.Equal(t, "object", d.InputSchema.Type, d.Name)
		assert.Equal(t, d.Name, d.Annotations.Title)
	}
}
