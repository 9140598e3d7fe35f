package tools

import (
	"context"
	"regexp"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

var gedbasIDRegexp = regexp.MustCompile(gedbasIDPattern)

// GedbasSearchSimple runs a simple person search against the external
// GEDBAS genealogical database.
type GedbasSearchSimple struct {
	Gedbas backend.Gedbas
}

func (t *GedbasSearchSimple) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "search-simple",
		Description: "Search for persons in the GEDBAS genealogical database.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"lastname": {
					Type:        "string",
					Description: "The last name to search for.",
					MaxLength:   256,
				},
				"firstname": {
					Type:        "string",
					Description: "The first name to search for.",
					MaxLength:   256,
					Default:     "",
				},
				"placename": {
					Type:        "string",
					Description: "A place name to narrow the search.",
					MaxLength:   256,
					Default:     "",
				},
			},
			Required: []string{"lastname"},
		},
		OutputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"ids": {
					Type:        "array",
					Description: "The GEDBAS identifiers of the matching persons.",
				},
			},
			Required: []string{"ids"},
		},
		Annotations: mcp.Annotations{
			Title:          "search-simple",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *GedbasSearchSimple) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	lastname := inv.StringArg("lastname", "")
	if lastname == "" {
		return badRequest("Missing lastname parameter"), nil
	}
	firstname := inv.StringArg("firstname", "")
	place := inv.StringArg("placename", "")

	return storeResult(t.Gedbas.SearchSimple(ctx, lastname, firstname, place))
}

// GedbasPersonData retrieves the data of a single GEDBAS person.
type GedbasPersonData struct {
	Gedbas backend.Gedbas
}

func (t *GedbasPersonData) Describe() *mcp.Descriptor {
	return &mcp.Descriptor{
		Name:        "get-person-data",
		Description: "Retrieve the data of a person from the GEDBAS genealogical database.",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"id": {
					Type:        "string",
					Description: "The GEDBAS identifier of the person.",
					Pattern:     gedbasIDPattern,
					MaxLength:   20,
				},
			},
			Required: []string{"id"},
		},
		OutputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"person-data": {
					Type:        "object",
					Description: "The person data, including names, facts, and family relations.",
				},
			},
			Required: []string{"person-data"},
		},
		Annotations: mcp.Annotations{
			Title:          "get-person-data",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		},
	}
}

func (t *GedbasPersonData) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	id := inv.StringArg("id", "")
	if !gedbasIDRegexp.MatchString(id) {
		return badRequest("Invalid id parameter"), nil
	}
	return storeResult(t.Gedbas.PersonData(ctx, id))
}
