package sqlite

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagindex/internal/domain"
)

func openTestStore(t testing.TB) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDocument(t testing.TB) *domain.IndexDocument {
	t.Helper()

	doc := domain.NewIndexDocument()
	doc.UpdatedAt = time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)

	doc.Files["notes/login.md"] = &domain.FileRecord{
		ModifiedAt: 1700000000123,
		Kind:       domain.KindDiagramDoc,
		Diagrams: domain.ParseDiagramDocument("# Login\n" +
			"```mermaid\nsequenceDiagram\nparticipant User\nUser->>Api: login\nApi-->>User: token\n```\n" +
			"```mermaid\nflowchart LR\nUser[Person] --> Db[(Store)]\n```\n" +
			"```mermaid\ngantt\ntitle Plan\n```\n" +
			"```mermaid\nsequenceDiagram\n```\n"),
	}

	graph, err := domain.ParseCanvas([]byte(`{"nodes":[{"id":"User"},{"id":"api"}],"edges":[{"fromNode":"User","toNode":"api"}]}`))
	require.NoError(t, err)
	doc.Files["boards/system.canvas"] = &domain.FileRecord{
		ModifiedAt: 1700000000456,
		Kind:       domain.KindGraphDoc,
		Nodes:      graph.Nodes,
		Edges:      graph.Edges,
	}

	empty, err := domain.ParseCanvas([]byte(`{"nodes":[],"edges":[]}`))
	require.NoError(t, err)
	doc.Files["boards/empty.canvas"] = &domain.FileRecord{
		ModifiedAt: 1,
		Kind:       domain.KindGraphDoc,
		Nodes:      empty.Nodes,
		Edges:      empty.Edges,
	}

	return doc
}

func TestStore_LoadEmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	doc := sampleDocument(t)

	require.NoError(t, s.Save(doc))

	loaded, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, doc.Version, loaded.Version)
	assert.True(t, doc.UpdatedAt.Equal(loaded.UpdatedAt))
	assert.Equal(t, doc.Files, loaded.Files)
}

func TestStore_SaveReplacesPreviousContent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save(sampleDocument(t)))

	next := domain.NewIndexDocument()
	next.Files["only.md"] = &domain.FileRecord{
		ModifiedAt: 5,
		Kind:       domain.KindDiagramDoc,
		Diagrams:   domain.ParseDiagramDocument("```mermaid\ngraph TD\nA[x]\n```\n"),
	}
	require.NoError(t, s.Save(next))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, next.Files, loaded.Files)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleDocument(t)))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Files, 3)
	assert.Equal(t, path, reopened.Location())
}

func TestStore_FindNodeMatchesDomainLookup(t *testing.T) {
	s := openTestStore(t)
	doc := sampleDocument(t)
	require.NoError(t, s.Save(doc))

	for _, id := range []string{"User", "Api", "Db", "api", "missing"} {
		t.Run(id, func(t *testing.T) {
			got, err := s.FindNode(id)
			require.NoError(t, err)
			assert.Equal(t, domain.FindNode(doc, id), got)
		})
	}

	got, err := s.FindNode("User")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "boards/system.canvas", got[0].String())
	assert.Equal(t, "notes/login.md:2", got[1].String())
	assert.Equal(t, "notes/login.md:8", got[2].String())
}

func TestStore_ListFiles(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleDocument(t)))

	all, err := s.ListFiles("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "boards/empty.canvas", all[0].Path)
	assert.Equal(t, "notes/login.md", all[2].Path)

	doc := sampleDocument(t)
	assert.Equal(t, domain.ListFiles(doc, ""), all)
	assert.Equal(t, 4, all[2].Diagrams)
	assert.Equal(t, 2, all[1].Nodes)
	assert.Equal(t, 1, all[1].Edges)

	graphs, err := s.ListFiles(domain.KindGraphDoc)
	require.NoError(t, err)
	assert.Len(t, graphs, 2)
	for _, f := range graphs {
		assert.Equal(t, domain.KindGraphDoc, f.Kind)
	}
}

func BenchmarkSave(b *testing.B) {
	s := openTestStore(b)
	doc := sampleDocument(b)

	b.ResetTimer()
	for b.Loop() {
		if err := s.Save(doc); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

func BenchmarkLoad(b *testing.B) {
	s := openTestStore(b)
	if err := s.Save(sampleDocument(b)); err != nil {
		b.Fatalf("save failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.Load(); err != nil {
			b.Fatalf("load failed: %v", err)
		}
	}
}

func TestStore_FindNodeBeforeSave(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FindNode("User")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = s.ListFiles("")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_UsesWALJournal(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleDocument(t)))

	var mode string
	require.NoError(t, s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
