package tools

import (
	"context"

	"lineage/internal/backend"
	"lineage/internal/mcp"
)

// CliCommand executes an administrative console command on the record
// store. It is reachable over the REST surface only: Describe returns
// nil, so the operation is invisible to tools/list and unreachable via
// tools/call.
type CliCommand struct {
	Store backend.Store
}

func (t *CliCommand) Describe() *mcp.Descriptor {
	return nil
}

func (t *CliCommand) Handle(ctx context.Context, inv *mcp.Invocation) (*mcp.Result, error) {
	command := inv.StringArg("command", "")
	if command == "" {
		return badRequest("Missing command parameter"), nil
	}
	return storeResult(t.Store.RunCommand(ctx, command))
}
