package jsonstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagindex/internal/domain"
)

func sampleDocument() *domain.IndexDocument {
	doc := domain.NewIndexDocument()
	doc.UpdatedAt = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	doc.Files["notes/flow.md"] = &domain.FileRecord{
		ModifiedAt: 1710000000000,
		Kind:       domain.KindDiagramDoc,
		Diagrams: []domain.DiagramRecord{
			{Type: domain.DiagramSequence, StartLine: 3, Participants: []string{"A", "B"}, MessageCount: 2},
			{Type: domain.DiagramFlowchart, StartLine: 10, Nodes: []string{"Start"}},
		},
	}
	doc.Files["boards/map.canvas"] = &domain.FileRecord{
		ModifiedAt: 1710000000001,
		Kind:       domain.KindGraphDoc,
		Nodes:      []string{"a", "b"},
		Edges:      []domain.GraphEdge{{From: "a", To: "b"}},
	}
	return doc
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.json")
	store := NewStore(path)
	doc := sampleDocument()

	require.NoError(t, store.Save(doc))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, doc.Version, loaded.Version)
	assert.True(t, doc.UpdatedAt.Equal(loaded.UpdatedAt))
	assert.Equal(t, doc.Files, loaded.Files)
}

func TestStore_SaveIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, NewStore(path).Save(sampleDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "{\n  \"version\": \"1.0\""), out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "\n  \"files\": {")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_SaveIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, NewStore(path).Save(sampleDocument()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0644), info.Mode().Perm())
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	assert.ErrorContains(t, err, "decode index")
}

func TestStore_LoadWithoutFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"0.9"}`), 0644))

	doc, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "0.9", doc.Version)
	assert.NotNil(t, doc.Files)
}

func TestNewStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewStore("").Location())
}
