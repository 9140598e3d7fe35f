package tools

import (
	"context"
	"regexp"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

var xrefRegexp = regexp.MustCompile(xrefPattern)

// GetRecord retrieves the GEDCOM data for a record.
type GetRecord struct {
	Store backend.Store
}

func (t *GetRecord) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "get-record",
		Description: "Retrieve the GEDCOM data for a record.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"tree":   schemaTree(),
				"xref":   appendDescription(schemaXref(), "The XREF of the record to retrieve."),
				"format": schemaGedcomFormat(),
			},
			Required: []string{"tree", "xref"},
		},
		OutputSchema: &mcp.Schema{Type: "object"},
		Annotations: mcp.Annotations{
			Title:          "get-record",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *GetRecord) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	tree := inv.StringArg("tree", "")
	xref := inv.StringArg("xref", "")
	format := inv.StringArg("format", defaultDataFormat)

	if tree == "" {
		return badRequest("Missing tree parameter"), nil
	}
	if !xrefRegexp.MatchString(xref) {
		return badRequest("Invalid xref parameter"), nil
	}
	if !validFormat(format) {
		return badRequest("Invalid format parameter"), nil
	}

	return storeResult(t.Store.GetRecord(ctx, tree, xref, format))
}

// ModifyRecord replaces the GEDCOM data of an existing record.
type ModifyRecord struct {
	Store backend.Store
}

func (t *ModifyRecord) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "modify-record",
		Description: "Modify the GEDCOM data of a record.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"tree":   schemaTree(),
				"xref":   appendDescription(schemaXref(), "The XREF of the record to modify."),
				"gedcom": schemaGedcom(),
			},
			Required: []string{"tree", "xref", "gedcom"},
		},
		OutputSchema: &mcp.Schema{
			Type:       "object",
			Properties: map[string]*mcp.Schema{"xref": schemaXref()},
			Required:   []string{"xref"},
		},
		Annotations: mcp.Annotations{
			Title:           "modify-record",
			DestructiveHint: true,
			OpenWorldHint:   true,
		},
	}
}

func (t *ModifyRecord) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	tree := inv.StringArg("tree", "")
	xref := inv.StringArg("xref", "")
	gedcom := normalizeGedcom(inv.StringArg("gedcom", ""))

	if tree == "" {
		return badRequest("Missing tree parameter"), nil
	}
	if !xrefRegexp.MatchString(xref) {
		return badRequest("Invalid xref parameter"), nil
	}
	if gedcom == "" {
		return badRequest("Missing gedcom parameter"), nil
	}

	return storeResult(t.Store.ModifyRecord(ctx, tree, xref, gedcom))
}

// AddUnlinkedRecord creates a new record that is not yet linked to any
// other record.
type AddUnlinkedRecord struct {
	Store backend.Store
}

func (t *AddUnlinkedRecord) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "add-unlinked-record",
		Description: "Create a new unlinked GEDCOM record.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"tree":        schemaTree(),
				"record-type": schemaRecordType(),
				"gedcom":      schemaGedcom(),
			},
			Required: []string{"tree", "record-type"},
		},
		OutputSchema: &mcp.Schema{
			Type:       "object",
			Properties: map[string]*mcp.Schema{"xref": schemaXref()},
			Required:   []string{"xref"},
		},
		Annotations: mcp.Annotations{
			Title:         "add-unlinked-record",
			OpenWorldHint: true,
		},
	}
}

func (t *AddUnlinkedRecord) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	tree := inv.StringArg("tree", "")
	recordType := inv.StringArg("record-type", "")
	gedcom := normalizeGedcom(inv.StringArg("gedcom", ""))

	if tree == "" {
		return badRequest("Missing tree parameter"), nil
	}
	if !validRecordType(recordType) {
		return badRequest("Invalid record-type parameter"), nil
	}

	return storeResult(t.Store.CreateRecord(ctx, tree, recordType, gedcom))
}

func validRecordType(recordType string) bool {
	switch recordType {
	case "FAM", "INDI", "OBJE", "NOTE", "REPO", "SOUR", "SUBM":
		return true
	}
	return false
}
