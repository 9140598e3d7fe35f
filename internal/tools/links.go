package tools

import (
	"context"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

// relationshipEnum is the pedigree linkage types accepted when linking
// an existing child to a family.
var relationshipEnum = []string{"adopted", "birth", "foster", "sealing", "rada"}

// linkSpec describes one relationship operation: the add-* operations
// create a new record and attach it, the link-* operations connect two
// existing records.
type linkSpec struct {
	op          string
	description string
	// createsRecord selects the add-* input shape (tree, xref, gedcom)
	// over the link-* shape (tree, individual-xref, second xref).
	createsRecord bool
	xrefDesc      string
	secondXref    string
	secondDesc    string
}

var linkSpecs = map[string]linkSpec{
	backend.OpAddChildToFamily: {
		op:            backend.OpAddChildToFamily,
		description:   "Add a new INDI record for a child to a family.",
		createsRecord: true,
		xrefDesc:      "The XREF of the family, to which the child shall be added.",
	},
	backend.OpAddChildToIndividual: {
		op:            backend.OpAddChildToIndividual,
		description:   "Add a new INDI record for a child to an individual.",
		createsRecord: true,
		xrefDesc:      "The XREF of the individual, to which the child shall be added.",
	},
	backend.OpAddParentToIndividual: {
		op:            backend.OpAddParentToIndividual,
		description:   "Add a new INDI record for a parent to an individual.",
		createsRecord: true,
		xrefDesc:      "The XREF of the individual, to which the parent shall be added.",
	},
	backend.OpAddSpouseToFamily: {
		op:            backend.OpAddSpouseToFamily,
		description:   "Add a new INDI record for a spouse to a family.",
		createsRecord: true,
		xrefDesc:      "The XREF of the family, to which the spouse shall be added.",
	},
	backend.OpAddSpouseToIndividual: {
		op:            backend.OpAddSpouseToIndividual,
		description:   "Add a new INDI record for a spouse to an individual.",
		createsRecord: true,
		xrefDesc:      "The XREF of the individual, to which the spouse shall be added.",
	},
	backend.OpLinkChildToFamily: {
		op:          backend.OpLinkChildToFamily,
		description: "Link an existing individual as a child to an existing family.",
		xrefDesc:    "The XREF of the individual to link as a child.",
		secondXref:  "family-xref",
		secondDesc:  "The XREF of the family, to which the child shall be linked.",
	},
	backend.OpLinkSpouseToIndividual: {
		op:          backend.OpLinkSpouseToIndividual,
		description: "Link an existing individual as a spouse to another existing individual.",
		xrefDesc:    "The XREF of the individual to link the spouse to.",
		secondXref:  "spouse-xref",
		secondDesc:  "The XREF of the individual to link as a spouse.",
	},
}

// Link is the shared handler behind every relationship operation.
type Link struct {
	Store backend.Store
	spec  linkSpec
}

// NewLink creates the handler for one relationship operation. Unknown
// operation names panic at startup, they never reach request time.
func NewLink(store backend.Store, op string) *Link {
	spec, ok := linkSpecs[op]
	if !ok {
		panic("unknown link operation: " + op)
	}
	return &Link{Store: store, spec: spec}
}

func (t *Link) Describe() *mcp.Descriptor {
	properties := map[string]*mcp.Schema{
		"tree": schemaTree(),
	}
	required := []string{"tree"}

	if t.spec.createsRecord {
		properties["xref"] = appendDescription(schemaXref(), t.spec.xrefDesc)
		properties["gedcom"] = schemaGedcom()
		required = append(required, "xref")
	} else {
		properties["individual-xref"] = appendDescription(schemaXref(), t.spec.xrefDesc)
		properties[t.spec.secondXref] = appendDescription(schemaXref(), t.spec.secondDesc)
		properties["relationship"] = &mcp.Schema{
			Type:        "string",
			Description: "The pedigree relationship between child and family.",
			Enum:        relationshipEnum,
		}
		required = append(required, "individual-xref", t.spec.secondXref)
	}

	return &mcp.Descriptor{
		Name:        t.spec.op,
		Description: t.spec.description,
		InputSchema: &mcp.Schema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
		OutputSchema: &mcp.Schema{
			Type:       "object",
			Properties: map[string]*mcp.Schema{"xref": schemaXref()},
			Required:   []string{"xref"},
		},
		Annotations: mcp.Annotations{
			Title:          t.spec.op,
			IdempotentHint: !t.spec.createsRecord,
			OpenWorldHint:  true,
		},
	}
}

func (t *Link) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	tree := inv.StringArg("tree", "")
	if tree == "" {
		return badRequest("Missing tree parameter"), nil
	}

	params := map[string]string{}

	if t.spec.createsRecord {
		xref := inv.StringArg("xref", "")
		if !xrefRegexp.MatchString(xref) {
			return badRequest("Invalid xref parameter"), nil
		}
		params["xref"] = xref
		params["gedcom"] = normalizeGedcom(inv.StringArg("gedcom", ""))
	} else {
		xref := inv.StringArg("individual-xref", "")
		target := inv.StringArg(t.spec.secondXref, "")
		if !xrefRegexp.MatchString(xref) {
			return badRequest("Invalid individual-xref parameter"), nil
		}
		if !xrefRegexp.MatchString(target) {
			return badRequest("Invalid " + t.spec.secondXref + " parameter"), nil
		}
		params["xref"] = xref
		params["target"] = target
		if rel := inv.StringArg("relationship", ""); rel != "" {
			if !validRelationship(rel) {
				return badRequest("Invalid relationship parameter"), nil
			}
			params["relationship"] = rel
		}
	}

	return storeResult(t.Store.Link(ctx, t.spec.op, tree, params))
}

func validRelationship(rel string) bool {
	for _, known := range relationshipEnum {
		if rel == known {
			return true
		}
	}
	return false
}
