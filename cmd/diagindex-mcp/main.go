package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diagindex/internal/adapters/filesystem"
	"diagindex/internal/adapters/jsonstore"
	mcpadapter "diagindex/internal/adapters/mcp"
	"diagindex/internal/adapters/sqlite"
	"diagindex/internal/config"
	"diagindex/internal/ports"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("diagindex-mcp: %v", err)
	}

	storeFlag := flag.String("store", cfg.Store, "index store: json or sqlite")
	outputFlag := flag.String("output", "", "index file (default depends on the store)")
	flag.Parse()

	output := *outputFlag
	if output == "" {
		output = cfg.OutputFor(*storeFlag)
	}

	var store ports.IndexStore
	switch *storeFlag {
	case config.StoreJSON:
		store = jsonstore.NewStore(output)
	case config.StoreSQLite:
		db, err := sqlite.Open(output)
		if err != nil {
			log.Fatalf("diagindex-mcp: %v", err)
		}
		defer db.Close()
		store = db
	default:
		log.Fatalf("diagindex-mcp: unsupported store %q", *storeFlag)
	}

	mcpServer := server.NewMCPServer(
		"diagindex-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store)
	mcpadapter.RegisterWriteTools(mcpServer, filesystem.NewSource(), store)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("diagindex-mcp: %v", err)
	}
}
