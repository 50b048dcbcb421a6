package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/reconcile"
	"github.com/erraggy/oassync/remote"
	"github.com/erraggy/oassync/structdiff"
)

// planInput defines the input parameters for the plan tool.
type planInput struct {
	Base     string `json:"base" jsonschema:"Base OpenAPI document: local file path or URL (the current state of the store)"`
	Revision string `json:"revision" jsonschema:"Revised OpenAPI document: local file path or URL (the desired state)"`
}

// planOutput defines the structured output of the plan tool.
type planOutput struct {
	TotalEntries int      `json:"totalEntries"`
	Commands     []string `json:"commands,omitempty"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
	Summary      string   `json:"summary"`
}

// handlePlan fetches both document versions, diffs them, and translates
// the diff into the ordered mutation plan.
func handlePlan(ctx context.Context, _ *mcp.CallToolRequest, input planInput) (*mcp.CallToolResult, planOutput, error) {
	if input.Base == "" || input.Revision == "" {
		return errResult(fmt.Errorf("both base and revision are required")), planOutput{}, nil
	}

	var fetcher remote.Fetcher
	base, err := fetcher.Fetch(ctx, input.Base)
	if err != nil {
		return errResult(fmt.Errorf("failed to fetch base document: %w", err)), planOutput{}, nil
	}
	rev, err := fetcher.Fetch(ctx, input.Revision)
	if err != nil {
		return errResult(fmt.Errorf("failed to fetch revision document: %w", err)), planOutput{}, nil
	}

	tables := entity.FromDocument(base.Raw)
	entries := structdiff.Diff(base.Raw, rev.Raw)
	res := reconcile.New(tables).Plan(entries)

	output := planOutput{
		TotalEntries: len(entries),
		Commands:     makeSlice[string](len(res.Commands)),
		Diagnostics:  makeSlice[string](len(res.Diagnostics)),
	}
	for i, cmd := range res.Commands {
		output.Commands[i] = cmd.String()
	}
	for i, d := range res.Diagnostics {
		output.Diagnostics[i] = d.String()
	}

	switch {
	case len(entries) == 0:
		output.Summary = "Documents are identical: nothing to plan."
	case len(res.Commands) == 0:
		output.Summary = fmt.Sprintf("No applicable changes: %d diff entries produced 0 commands (%d diagnostics).",
			len(entries), len(res.Diagnostics))
	default:
		output.Summary = fmt.Sprintf("Planned %d commands from %d diff entries (%d diagnostics).",
			len(res.Commands), len(entries), len(res.Diagnostics))
	}

	return nil, output, nil
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise a slice of length n.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, n)
}
