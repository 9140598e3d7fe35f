// Package tools implements the individual tool operations exposed over
// the REST and MCP surfaces: record retrieval and mutation, search,
// tree and version metadata, relationship linking, console commands,
// and the GEDBAS integration.
//
// Every handler reduces to the same contract: take a normalized
// invocation, validate its arguments, call the record store, and report
// the outcome as an HTTP-shaped result that the dispatch core
// translates per transport.
package tools

import (
	"net/http"
	"strings"

	"lineage/internal/backend"
	"lineage/internal/mcp"
	"lineage/internal/oauth"
)

// Register populates the registry with every tool operation.
func Register(reg *mcp.Registry, store backend.Store, gedbas backend.Gedbas) {
	readEntry := func(name string, h mcp.Handler) mcp.Entry {
		return mcp.Entry{
			Name:         name,
			Interface:    mcp.ToolInterfaceStandard,
			RESTCategory: oauth.CategoryRead,
			MCPCategory:  oauth.CategoryMcpRead,
			Handler:      h,
		}
	}
	writeEntry := func(name string, h mcp.Handler) mcp.Entry {
		return mcp.Entry{
			Name:         name,
			Interface:    mcp.ToolInterfaceStandard,
			RESTCategory: oauth.CategoryWrite,
			MCPCategory:  oauth.CategoryMcpWrite,
			Handler:      h,
		}
	}

	reg.Register(readEntry("get-record", &GetRecord{Store: store}))
	reg.Register(readEntry("get-search-general", &SearchGeneral{Store: store}))
	reg.Register(readEntry("get-trees", &Trees{Store: store}))
	reg.Register(readEntry("get-version", &Version{Store: store}))

	reg.Register(writeEntry("modify-record", &ModifyRecord{Store: store}))
	reg.Register(writeEntry("add-unlinked-record", &AddUnlinkedRecord{Store: store}))
	for _, op := range []string{
		backend.OpAddChildToFamily,
		backend.OpAddChildToIndividual,
		backend.OpAddParentToIndividual,
		backend.OpAddSpouseToFamily,
		backend.OpAddSpouseToIndividual,
		backend.OpLinkChildToFamily,
		backend.OpLinkSpouseToIndividual,
	} {
		reg.Register(writeEntry(op, NewLink(store, op)))
	}

	reg.Register(mcp.Entry{
		Name:         "cli-command",
		Interface:    mcp.ToolInterfaceStandard,
		RESTCategory: oauth.CategoryCLI,
		MCPCategory:  oauth.CategoryUnknown,
		Handler:      &CliCommand{Store: store},
	})

	reg.Register(mcp.Entry{
		Name:         "search-simple",
		Interface:    mcp.ToolInterfaceGedbas,
		RESTCategory: oauth.CategoryGedbas,
		MCPCategory:  oauth.CategoryGedbas,
		Handler:      &GedbasSearchSimple{Gedbas: gedbas},
	})
	reg.Register(mcp.Entry{
		Name:         "get-person-data",
		Interface:    mcp.ToolInterfaceGedbas,
		RESTCategory: oauth.CategoryGedbas,
		MCPCategory:  oauth.CategoryGedbas,
		Handler:      &GedbasPersonData{Gedbas: gedbas},
	})
}

// storeResult converts a record-store outcome into an HTTP-shaped
// result. Client errors keep their upstream status and reason; anything
// else is a server error and escalates through the translator.
func storeResult(body string, err error) (*mcp.Result, error) {
	if err != nil {
		if be, ok := backend.AsError(err); ok {
			return &mcp.Result{Status: be.Status, Reason: be.Reason}, nil
		}
		return &mcp.Result{Status: http.StatusInternalServerError, Reason: err.Error()}, nil
	}
	return &mcp.Result{Status: http.StatusOK, Body: strings.NewReader(body)}, nil
}

func badRequest(reason string) *mcp.Result {
	return &mcp.Result{Status: http.StatusBadRequest, Reason: reason}
}
