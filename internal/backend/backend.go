// Package backend defines the contract to the genealogical record store.
//
// The store is an external collaborator: it accepts arbitrary-size text or
// JSON bodies, may take arbitrary latency, and reports three outcome
// classes (success, client error with reason text, server error). Two
// implementations are provided: an HTTP client forwarding to a remote
// store and an in-memory store for tests and local development.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-error outcome from the record store. It carries the
// HTTP status and reason the handlers report back to the caller.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Reason)
}

// NotFound returns a client-error outcome with status 404.
func NotFound(reason string) error {
	return &Error{Status: http.StatusNotFound, Reason: reason}
}

// BadRequest returns a client-error outcome with status 400.
func BadRequest(reason string) error {
	return &Error{Status: http.StatusBadRequest, Reason: reason}
}

// AsError extracts a client-error outcome from err, if it is one.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Link operations supported by the record store. The wire names double as
// MCP tool names.
const (
	OpAddChildToFamily       = "add-child-to-family"
	OpAddChildToIndividual   = "add-child-to-individual"
	OpAddParentToIndividual  = "add-parent-to-individual"
	OpAddSpouseToFamily      = "add-spouse-to-family"
	OpAddSpouseToIndividual  = "add-spouse-to-individual"
	OpLinkChildToFamily      = "link-child-to-family"
	OpLinkSpouseToIndividual = "link-spouse-to-individual"
)

// Store is the record-backend contract consumed by the tool handlers.
// All methods return the response body as text (JSON or GEDCOM, depending
// on the requested format); failures are reported as *Error for client
// errors and as plain errors for server errors.
type Store interface {
	// Trees lists the genealogical trees of the store.
	Trees(ctx context.Context) (string, error)

	// Version reports the version of the record store.
	Version(ctx context.Context) (string, error)

	// GetRecord retrieves a record by cross-reference identifier.
	GetRecord(ctx context.Context, tree, xref, format string) (string, error)

	// Search runs a general full-text search over a tree.
	Search(ctx context.Context, tree, query, format string) (string, error)

	// ModifyRecord replaces the content of an existing record.
	ModifyRecord(ctx context.Context, tree, xref, gedcom string) (string, error)

	// CreateRecord adds a new unlinked record and returns its identifier.
	CreateRecord(ctx context.Context, tree, recordType, gedcom string) (string, error)

	// Link connects two records (child/spouse/parent relations). The op is
	// one of the Op* constants; params carry the operation's arguments.
	Link(ctx context.Context, op, tree string, params map[string]string) (string, error)

	// RunCommand executes an administrative console command.
	RunCommand(ctx context.Context, command string) (string, error)
}

// Gedbas is the contract to the external GEDBAS genealogical database.
type Gedbas interface {
	// SearchSimple runs a simple person search.
	SearchSimple(ctx context.Context, lastname, firstname, place string) (string, error)

	// PersonData retrieves the data of a single person by GEDBAS id.
	PersonData(ctx context.Context, id string) (string, error)
}
