package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagindex/internal/adapters/filesystem"
	"diagindex/internal/adapters/jsonstore"
	"diagindex/internal/adapters/sqlite"
)

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func setupVault(t *testing.T) (string, *jsonstore.Store) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "login.md"),
		[]byte("# Login\n```mermaid\nsequenceDiagram\nUser->>Api: login\n```\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "system.canvas"),
		[]byte(`{"nodes":[{"id":"Api"}],"edges":[]}`), 0644))

	store := jsonstore.NewStore(filepath.Join(t.TempDir(), "index.json"))
	return root, store
}

func TestTools_BuildThenQuery(t *testing.T) {
	root, store := setupVault(t)
	source := filesystem.NewSource()

	out, isErr := call(t, buildIndexHandler(source, store), map[string]any{"root": root})
	require.False(t, isErr, out)
	assert.Contains(t, out, "processed 2 files, skipped 0 unchanged")

	out, isErr = call(t, findNodeHandler(store), map[string]any{"id": "Api"})
	require.False(t, isErr, out)
	assert.Equal(t,
		filepath.Join(root, "login.md")+":2\n"+filepath.Join(root, "system.canvas")+"\n",
		out)

	out, isErr = call(t, findNodeHandler(store), map[string]any{"id": "api"})
	require.False(t, isErr)
	assert.Equal(t, "No results found.", out)

	out, isErr = call(t, listFilesHandler(store), map[string]any{"kind": "graphDoc"})
	require.False(t, isErr)
	assert.Contains(t, out, "system.canvas  graphDoc  1 nodes, 0 edges")
	assert.NotContains(t, out, "login.md")

	out, isErr = call(t, showFileHandler(store), map[string]any{"path": filepath.Join(root, "login.md")})
	require.False(t, isErr)
	assert.Contains(t, out, `"kind": "diagramDoc"`)
	assert.Contains(t, out, `"type": "sequence"`)
}

func TestTools_IncrementalBuild(t *testing.T) {
	root, store := setupVault(t)
	source := filesystem.NewSource()

	_, isErr := call(t, buildIndexHandler(source, store), map[string]any{"root": root})
	require.False(t, isErr)

	out, isErr := call(t, buildIndexHandler(source, store), map[string]any{"root": root, "incremental": true})
	require.False(t, isErr)
	assert.Contains(t, out, "processed 0 files, skipped 2 unchanged")
}

func TestTools_Errors(t *testing.T) {
	_, store := setupVault(t)

	out, isErr := call(t, findNodeHandler(store), map[string]any{"id": "Api"})
	assert.True(t, isErr, "missing index is a tool error")
	assert.Contains(t, out, "loading index")

	out, isErr = call(t, findNodeHandler(store), map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, out, "node ID")

	_, isErr = call(t, listFilesHandler(store), map[string]any{"kind": "pdf"})
	assert.True(t, isErr)

	_, isErr = call(t, buildIndexHandler(filesystem.NewSource(), store), map[string]any{"root": filepath.Join(t.TempDir(), "missing")})
	assert.True(t, isErr)
}

func TestTools_ListFilesFromSQLiteStore(t *testing.T) {
	root, _ := setupVault(t)
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer store.Close()

	_, isErr := call(t, buildIndexHandler(filesystem.NewSource(), store), map[string]any{"root": root})
	require.False(t, isErr)

	out, isErr := call(t, listFilesHandler(store), map[string]any{})
	require.False(t, isErr, out)
	assert.Equal(t,
		filepath.Join(root, "login.md")+"  diagramDoc  1 diagrams\n"+
			filepath.Join(root, "system.canvas")+"  graphDoc  1 nodes, 0 edges\n",
		out)

	out, isErr = call(t, listFilesHandler(store), map[string]any{"kind": "diagramDoc"})
	require.False(t, isErr)
	assert.NotContains(t, out, "system.canvas")
}

func TestTools_ListFilesBeforeBuild(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer store.Close()

	out, isErr := call(t, listFilesHandler(store), map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, out, "loading index")
}
