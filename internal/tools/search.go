package tools

import (
	"context"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

// SearchGeneral runs a full-text search over one tree.
type SearchGeneral struct {
	Store backend.Store
}

func (t *SearchGeneral) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "get-search-general",
		Description: "Run a general full-text search over the records of a tree.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"tree": schemaTree(),
				"query": {
					Type:        "string",
					Description: "The search text. Matching is case-insensitive.",
					MaxLength:   1024,
				},
				"format": schemaGedcomFormat(),
			},
			Required: []string{"query"},
		},
		OutputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"records": {
					Type:        "array",
					Description: "The matching records, identified by tree and XREF.",
				},
			},
			Required: []string{"records"},
		},
		Annotations: mcp.Annotations{
			Title:          "get-search-general",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *SearchGeneral) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	tree := inv.StringArg("tree", "")
	query := inv.StringArg("query", "")
	format := inv.StringArg("format", defaultDataFormat)

	if query == "" {
		return badRequest("Missing query parameter"), nil
	}
	if !validFormat(format) {
		return badRequest("Invalid format parameter"), nil
	}

	return storeResult(t.Store.Search(ctx, tree, query, format))
}
