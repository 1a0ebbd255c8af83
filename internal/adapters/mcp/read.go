package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diagindex/internal/application/commands"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// RegisterReadTools adds the read-only index tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ports.IndexStore) {
	s.AddTool(findNodeTool(), findNodeHandler(store))
	s.AddTool(listFilesTool(), listFilesHandler(store))
	s.AddTool(showFileTool(), showFileHandler(store))
}

// --- find_node ---

func findNodeTool() mcp.Tool {
	return mcp.NewTool("find_node",
		mcp.WithDescription("Find every location of a node identifier: canvas nodes, sequence participants and flowchart nodes. Matching is exact and case-sensitive."),
		mcp.WithString("id",
			mcp.Description("Node identifier (e.g. Api, User)"),
			mcp.Required(),
		),
	)
}

func findNodeHandler(store ports.IndexStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")

		locations, err := commands.NewFindCommand(store, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(locations) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, loc := range locations {
			sb.WriteString(loc.String())
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_files ---

func listFilesTool() mcp.Tool {
	return mcp.NewTool("list_files",
		mcp.WithDescription("List indexed files with their kind and number of diagrams or nodes."),
		mcp.WithString("kind",
			mcp.Description("Restrict to one kind"),
			mcp.Enum(string(domain.KindDiagramDoc), string(domain.KindGraphDoc)),
		),
	)
}

func listFilesHandler(store ports.IndexStore) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := domain.FileKind(req.GetString("kind", ""))
		if kind != "" && kind != domain.KindDiagramDoc && kind != domain.KindGraphDoc {
			return toolError(fmt.Errorf("invalid kind: %s", kind))
		}

		files, err := listFiles(store, kind)
		if err != nil {
			return toolError(fmt.Errorf("loading index %s: %w", store.Location(), err))
		}

		var sb strings.Builder
		for _, f := range files {
			fmt.Fprintf(&sb, "%s  %s  %s\n", f.Path, f.Kind, describeFile(f))
		}

		if sb.Len() == 0 {
			return mcp.NewToolResultText("No results."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- show_file ---

func showFileTool() mcp.Tool {
	return mcp.NewTool("show_file",
		mcp.WithDescription("Show the indexed record of one file as JSON."),
		mcp.WithString("path",
			mcp.Description("File path exactly as stored in the index"),
			mcp.Required(),
		),
	)
}

func showFileHandler(store ports.IndexStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")

		rec, err := commands.NewShowCommand(store, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// listFiles asks the store directly when it can list files itself
func listFiles(store ports.IndexStore, kind domain.FileKind) ([]domain.FileSummary, error) {
	if lister, ok := store.(ports.FileLister); ok {
		return lister.ListFiles(kind)
	}

	doc, err := store.Load()
	if err != nil {
		return nil, err
	}
	return domain.ListFiles(doc, kind), nil
}

func describeFile(f domain.FileSummary) string {
	switch f.Kind {
	case domain.KindDiagramDoc:
		return fmt.Sprintf("%d diagrams", f.Diagrams)
	case domain.KindGraphDoc:
		return fmt.Sprintf("%d nodes, %d edges", f.Nodes, f.Edges)
	default:
		return ""
	}
}
