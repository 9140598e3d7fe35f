package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandler is a canned tool handler for dispatcher tests.
type stubHandler struct {
	descriptor *Descriptor
	result     *Result
	err        error
	panics     bool
}

func (h *stubHandler) Describe() *Descriptor { return h.descriptor }

func (h *stubHandler) Handle(ctx context.Context, inv *Invocation) (*Result, error) {
	if h.panics {
		panic("handler exploded")
	}
	return h.result, h.err
}

func testDescriptor(name string) *Descriptor {
	return &Descriptor{
		Name:        name,
		Description: "test tool",
		InputSchema: &Schema{Type: "object"},
	}
}

func dispatch(t *testing.T, d *Dispatcher, inv *Invocation, iface ToolInterface) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/mcp", nil)
	d.Dispatch(w, r, inv, iface)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestDispatch_Initialize(t *testing.T) {
	d := NewDispatcher(NewRegistry(), ServerInfo{Name: "test server", Version: "1.2.3"})

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"latest version echoed", LatestProtocolVersion, LatestProtocolVersion},
		{"older version degrades to latest", "2024-11-05", LatestProtocolVersion},
		{"malformed version degrades to latest", "bogus", LatestProtocolVersion},
		{"empty version degrades to latest", "", LatestProtocolVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := dispatch(t, d, &Invocation{
				Method:          "initialize",
				ID:              int64(1),
				ProtocolVersion: tt.requested,
			}, ToolInterfaceStandard)

			assert.Equal(t, http.StatusOK, w.Code)
			result := body["result"].(map[string]any)
			assert.Equal(t, tt.want, result["protocolVersion"])

			info := result["serverInfo"].(map[string]any)
			assert.Equal(t, "test server", info["name"])
			assert.Equal(t, "1.2.3", info["version"])

			capabilities := result["capabilities"].(map[string]any)
			toolCaps := capabilities["tools"].(map[string]any)
			assert.Equal(t, false, toolCaps["listChanged"])
		})
	}
}

func TestDispatch_NotificationsInitialized(t *testing.T) {
	d := NewDispatcher(NewRegistry(), ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "notifications/initialized", ID: DefaultID}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Nil(t, body["result"])
}

func TestDispatch_ToolsList_EmptyRegistryYieldsEmptyArray(t *testing.T) {
	d := NewDispatcher(NewRegistry(), ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "tools/list", ID: int64(1)}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusOK, w.Code)

	result := body["result"].(map[string]any)
	toolList, ok := result["tools"].([]any)
	require.True(t, ok, "tools must be an array, not null")
	assert.Empty(t, toolList)
}

func TestDispatch_ToolsList_OmitsUndescribedTools(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "visible", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{descriptor: testDescriptor("visible")},
	})
	reg.Register(Entry{
		Name: "hidden", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{descriptor: nil},
	})
	d := NewDispatcher(reg, ServerInfo{})

	_, body := dispatch(t, d, &Invocation{Method: "tools/list", ID: int64(1)}, ToolInterfaceStandard)
	toolList := body["result"].(map[string]any)["tools"].([]any)
	require.Len(t, toolList, 1)
	assert.Equal(t, "visible", toolList[0].(map[string]any)["name"])
}

func TestDispatch_UnknownMethod(t *testing.T) {
	d := NewDispatcher(NewRegistry(), ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "resources/list", ID: int64(1)}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusOK, w.Code)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeMethodNotFound), rpcErr["code"])
}

func TestDispatch_CallUnknownTool(t *testing.T) {
	d := NewDispatcher(NewRegistry(), ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "nope", ID: int64(1)}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusOK, w.Code)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeMethodNotFound), rpcErr["code"])
}

func TestDispatch_CallUndescribedToolIsNotFound(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "rest-only", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{descriptor: nil, result: &Result{Status: http.StatusOK}},
	})
	d := NewDispatcher(reg, ServerInfo{})

	_, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "rest-only", ID: int64(1)}, ToolInterfaceStandard)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeMethodNotFound), rpcErr["code"])
}

func TestDispatch_NoCrossSurfaceFallThrough(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "shared-name", Interface: ToolInterfaceGedbas,
		Handler: &stubHandler{descriptor: testDescriptor("shared-name"), result: &Result{Status: http.StatusOK}},
	})
	d := NewDispatcher(reg, ServerInfo{})

	_, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "shared-name", ID: int64(1)}, ToolInterfaceStandard)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeMethodNotFound), rpcErr["code"])
}

func TestDispatch_PanicBecomesInternalError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "boom", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{descriptor: testDescriptor("boom"), panics: true},
	})
	d := NewDispatcher(reg, ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "boom", ID: int64(1)}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusOK, w.Code)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeInternalError), rpcErr["code"])
	assert.Contains(t, rpcErr["message"], "500: ")
}

func TestDispatch_HandlerErrorBecomesInternalError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "fail", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{descriptor: testDescriptor("fail"), err: assert.AnError},
	})
	d := NewDispatcher(reg, ServerInfo{})

	w, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "fail", ID: int64(1)}, ToolInterfaceStandard)
	assert.Equal(t, http.StatusOK, w.Code)
	rpcErr := body["error"].(map[string]any)
	assert.Equal(t, float64(CodeInternalError), rpcErr["code"])
}

func TestDispatch_InternalErrorMessageTruncated(t *testing.T) {
	longReason := strings.Repeat("x", 2000)
	reg := NewRegistry()
	reg.Register(Entry{
		Name: "fail", Interface: ToolInterfaceStandard,
		Handler: &stubHandler{
			descriptor: testDescriptor("fail"),
			result:     &Result{Status: http.StatusInternalServerError, Reason: longReason},
		},
	})
	d := NewDispatcher(reg, ServerInfo{})

	_, body := dispatch(t, d, &Invocation{Method: "tools/call", Tool: "fail", ID: int64(1)}, ToolInterfaceStandard)
	rpcErr := body["error"].(map[string]any)
	message := rpcErr["message"].(string)
	assert.True(t, strings.HasPrefix(message, "500: "))
	assert.Len(t, message, 512)
}
