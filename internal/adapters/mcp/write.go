package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diagindex/internal/application/commands"
	"diagindex/internal/ports"
)

// RegisterWriteTools adds the tools that rebuild the index.
func RegisterWriteTools(s *server.MCPServer, source ports.DocumentSource, store ports.IndexStore) {
	s.AddTool(buildIndexTool(), buildIndexHandler(source, store))
}

// --- build_index ---

func buildIndexTool() mcp.Tool {
	return mcp.NewTool("build_index",
		mcp.WithDescription("Scan a directory for markdown and canvas documents and rewrite the index."),
		mcp.WithString("root",
			mcp.Description("Directory to scan"),
			mcp.Required(),
		),
		mcp.WithBoolean("incremental",
			mcp.Description("Reuse records of files whose modification time is unchanged"),
		),
	)
}

func buildIndexHandler(source ports.DocumentSource, store ports.IndexStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")
		incremental := req.GetBool("incremental", false)

		result, err := commands.NewIndexCommand(source, store, root, incremental).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if result.LoadWarning != nil && !errors.Is(result.LoadWarning, fs.ErrNotExist) {
			fmt.Fprintf(&sb, "warning: %v\n", result.LoadWarning)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "warning: %v\n", w)
		}
		fmt.Fprintf(&sb, "%s (index: %s)\n", result.Summary(), store.Location())

		return mcp.NewToolResultText(sb.String()), nil
	}
}
