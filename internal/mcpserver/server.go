// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the oassync planning pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassync"
)

const serverInstructions = `oassync MCP server — plans normalized-store mutations from OpenAPI document changes.

The plan tool fetches a base and a revision of the same document (file paths or URLs), computes the structural diff, and translates it into the ordered mutation commands a normalized entity store would apply: request/server/tag/security-scheme adds, edits, and deletes. Diff entries that cannot be translated (unsupported fields, invalid values, missing entities) are returned as diagnostics rather than errors.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oassync", Version: oassync.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan",
		Description: "Compare two versions of an OpenAPI document (file paths or URLs) and return the ordered mutation plan against the normalized store: entity adds, field edits, and deletes, plus a diagnostic per change that could not be translated. Read-only: nothing is applied.",
	}, handlePlan)
}

var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute filesystem paths from error messages to
// prevent leaking internal directory structure to MCP clients.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
