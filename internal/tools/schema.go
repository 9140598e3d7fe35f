package tools

import "lineage/internal/mcp"

// Reusable schema fragments shared by the tool descriptors. The helpers
// return fresh copies so a descriptor can specialize the description
// without mutating the shared fragment.

const (
	xrefPattern       = `^[A-Za-z0-9:_.-]{1,20}$`
	treePattern       = `^[^\x00-\x1f\x7f/\\:*?"<>|]+$`
	recordTagPattern  = `^[_A-Z0-9]+$`
	gedbasIDPattern   = `^[0-9]+$`
	defaultDataFormat = "gedcom-x"
)

func schemaTree() *mcp.Schema {
	return &mcp.Schema{
		Type:        "string",
		Description: "The name of a genealogical tree.",
		MaxLength:   1024,
		Pattern:     treePattern,
	}
}

func schemaXref() *mcp.Schema {
	return &mcp.Schema{
		Type:        "string",
		Description: "A GEDCOM cross-reference identifier (XREF).",
		MaxLength:   20,
		Pattern:     xrefPattern,
	}
}

func schemaGedcom() *mcp.Schema {
	return &mcp.Schema{
		Type: "string",
		Description: `GEDCOM text in accordance to the GEDCOM standard. The GEDCOM text must not contain a level 0 line, because it is created automatically. "\n" or "%OA" will be detected as line break.`,
		Default:     "",
		Example:     `1 NOTE A record created by the API.\n1 NOTE Read description about line breaks.`,
	}
}

func schemaRecordType() *mcp.Schema {
	return &mcp.Schema{
		Type:        "string",
		Description: "The type of the GEDCOM record to create.",
		Enum:        []string{"FAM", "INDI", "OBJE", "NOTE", "REPO", "SOUR", "SUBM"},
		MaxLength:   4,
		Pattern:     recordTagPattern,
	}
}

func schemaGedcomFormat() *mcp.Schema {
	return &mcp.Schema{
		Type:        "string",
		Description: `The format of the GEDCOM data. Possible values are "gedcom" (GEDCOM 5.5.1), "gedcom-record" (single GEDCOM 5.5.1 record), "gedcom-x" (default; a JSON GEDCOM format defined by Familysearch), and "json" (identical to gedcom-x).`,
		Enum:        []string{"gedcom", "gedcom-record", "gedcom-x", "json"},
		Default:     defaultDataFormat,
	}
}

// appendDescription clones a schema fragment and appends extra text to
// its description.
func appendDescription(s *mcp.Schema, extra string) *mcp.Schema {
	clone := *s
	clone.Description = s.Description + " " + extra
	return &clone
}


// validFormat reports whether the requested GEDCOM format is known.
func validFormat(format string) bool {
	switch format {
	case "gedcom", "gedcom-record", "gedcom-x", "json":
		return true
	}
	return false
}
