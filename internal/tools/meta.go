package tools

import (
	"context"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

// Trees lists the genealogical trees of the record store.
type Trees struct {
	Store backend.Store
}

func (t *Trees) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "get-trees",
		Description: "List the genealogical trees of the record store.",
		InputSchema: &mcp.Schema{
			Type:     "object",
			Required: []string{},
		},
		OutputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"trees": {
					Type:        "array",
					Description: "The names of the available trees.",
				},
			},
			Required: []string{"trees"},
		},
		Annotations: mcp.Annotations{
			Title:          "get-trees",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *Trees) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	return storeResult(t.Store.Trees(ctx))
}

// Version reports the version of the record store.
type Version struct {
	Store backend.Store
}

func (t *Version) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "get-version",
		Description: "Report the version of the record store.",
		InputSchema: &mcp.Schema{
			Type:     "object",
			Required: []string{},
		},
		OutputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"version": {
					Type:        "string",
					Description: "The version of the record store.",
				},
			},
			Required: []string{"version"},
		},
		Annotations: mcp.Annotations{
			Title:          "get-version",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *Version) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	return storeResult(t.Store.Version(ctx))
}
