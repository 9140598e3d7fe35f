package mcp

import (
	"context"
	"io"
	"sort"

	"lineage/internal/oauth"
)

// Result is the HTTP-shaped outcome of a tool handler: status code,
// reason phrase, and a body stream of arbitrary size.
type Result struct {
	Status int
	Reason string
	Body   io.Reader
}

// Handler is the uniform contract the dispatch core requires from each
// tool operation.
type Handler interface {
	// Describe returns the static self-description used by tools/list.
	// A nil descriptor signals "not exposed via the MCP protocol".
	Describe() *Descriptor

	// Handle executes the operation with the normalized invocation.
	// A returned error means an unexpected server-side failure and is
	// escalated to the dispatcher's internal-error boundary.
	Handle(ctx context.Context, inv *Invocation) (*Result, error)
}

// Descriptor is a tool's machine-readable description.
type Descriptor struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	InputSchema  *Schema     `json:"inputSchema"`
	OutputSchema *Schema     `json:"outputSchema,omitempty"`
	Annotations  Annotations `json:"annotations"`
}

// Schema is the JSON-schema-like structure of tool inputs and outputs.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	MaxLength   int                `json:"maxLength,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Default     string             `json:"default,omitempty"`
	Example     string             `json:"example,omitempty"`
}

// Annotations are the tool's behavior hint flags.
type Annotations struct {
	Title           string `json:"title"`
	ReadOnlyHint    bool   `json:"readOnlyHint"`
	DestructiveHint bool   `json:"destructiveHint"`
	IdempotentHint  bool   `json:"idempotentHint"`
	OpenWorldHint   bool   `json:"openWorldHint"`
	Deprecated      bool   `json:"deprecated"`
}

// ToolInterface separates the ordinary tool surface from the external
// GEDBAS integration surface. The dispatcher filters by it and never
// falls through from one surface to the other, even when a name matches
// there.
type ToolInterface int

const (
	// ToolInterfaceStandard is the ordinary record-store tool surface.
	ToolInterfaceStandard ToolInterface = iota
	// ToolInterfaceGedbas is the GEDBAS integration tool surface.
	ToolInterfaceGedbas
)

// Entry binds a tool name to its handler and its scope categories per
// surface. CategoryUnknown means the tool is not exposed on that surface.
type Entry struct {
	Name         string
	Interface    ToolInterface
	RESTCategory oauth.Category
	MCPCategory  oauth.Category
	Handler      Handler
}

// Registry is the statically built registration table mapping tool names
// to handlers. It is populated once at startup; lookups are read-only.
type Registry struct {
	entries map[ToolInterface]map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[ToolInterface]map[string]Entry{}}
}

// Register adds a tool entry. Registering the same name twice on one
// surface replaces the earlier entry.
func (r *Registry) Register(e Entry) {
	if r.entries[e.Interface] == nil {
		r.entries[e.Interface] = map[string]Entry{}
	}
	r.entries[e.Interface][e.Name] = e
}

// Lookup finds a tool by name within one surface only.
func (r *Registry) Lookup(iface ToolInterface, name string) (Entry, bool) {
	e, ok := r.entries[iface][name]
	return e, ok
}

// Descriptors returns the self-descriptions of the tools exposed on the
// given surface, sorted by name. Tools describing themselves as nil are
// omitted.
func (r *Registry) Descriptors(iface ToolInterface) []*Descriptor {
	var out []*Descriptor
	for _, e := range r.entries[iface] {
		if d := e.Handler.Describe(); d != nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
