package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"diagindex/internal/adapters/filesystem"
	"diagindex/internal/domain"
	"diagindex/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.IndexStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements IndexStore, NodeFinder and FileLister
var (
	_ ports.IndexStore = (*Store)(nil)
	_ ports.NodeFinder = (*Store)(nil)
	_ ports.FileLister = (*Store)(nil)
)

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*Store, error) {
	dbPath = filesystem.ExpandHome(dbPath)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS diagrams (
			path TEXT NOT NULL,
			seq INTEGER NOT NULL,
			type TEXT NOT NULL,
			start_line INTEGER NOT NULL,
			message_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (path, seq)
		);
		CREATE TABLE IF NOT EXISTS diagram_idents (
			path TEXT NOT NULL,
			seq INTEGER NOT NULL,
			pos INTEGER NOT NULL,
			role TEXT NOT NULL,
			ident TEXT NOT NULL,
			PRIMARY KEY (path, seq, role, pos)
		);
		CREATE TABLE IF NOT EXISTS graph_nodes (
			path TEXT NOT NULL,
			pos INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			PRIMARY KEY (path, pos)
		);
		CREATE TABLE IF NOT EXISTS graph_edges (
			path TEXT NOT NULL,
			pos INTEGER NOT NULL,
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			PRIMARY KEY (path, pos)
		);
		CREATE INDEX IF NOT EXISTS idx_diagram_idents_ident ON diagram_idents(ident);
		CREATE INDEX IF NOT EXISTS idx_graph_nodes_node_id ON graph_nodes(node_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Location returns the database path
func (s *Store) Location() string {
	return s.dbPath
}

// Load rebuilds the index document from the tables. A database that has
// never been saved to is reported as fs.ErrNotExist.
func (s *Store) Load() (*domain.IndexDocument, error) {
	meta, err := s.checkSaved()
	if err != nil {
		return nil, err
	}

	doc := &domain.IndexDocument{
		Version: meta["version"],
		Files:   make(map[string]*domain.FileRecord),
	}
	if v := meta["updated_at"]; v != "" {
		if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("decode updated_at: %w", err)
		}
	}

	if err := s.loadFiles(doc); err != nil {
		return nil, err
	}
	if err := s.loadDiagrams(doc); err != nil {
		return nil, err
	}
	if err := s.loadGraphs(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Save replaces the stored index with doc in a single transaction
func (s *Store) Save(doc *domain.IndexDocument) error {
	tx, err := s.beginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.clear(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	for _, path := range domain.SortedPaths(doc) {
		rec := doc.Files[path]
		if rec == nil {
			continue
		}
		if err := tx.insertFile(path, rec); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	if err := tx.writeMeta(map[string]string{
		"schema_version": schemaVersion,
		"version":        doc.Version,
		"updated_at":     doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return tx.Commit()
}

// checkSaved returns the metadata, failing when nothing has been saved yet
func (s *Store) checkSaved() (map[string]string, error) {
	meta, err := s.readMeta()
	if err != nil {
		return nil, err
	}
	if meta["schema_version"] == "" {
		return nil, fmt.Errorf("no index in %s: %w", s.dbPath, fs.ErrNotExist)
	}
	if meta["schema_version"] != schemaVersion {
		return nil, fmt.Errorf("unsupported schema version %q", meta["schema_version"])
	}
	return meta, nil
}

func (s *Store) readMeta() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func (s *Store) loadFiles(doc *domain.IndexDocument) error {
	rows, err := s.db.Query(`SELECT path, kind, mtime FROM files`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var path, kind string
		var mtime int64
		if err := rows.Scan(&path, &kind, &mtime); err != nil {
			return err
		}
		rec := &domain.FileRecord{ModifiedAt: mtime, Kind: domain.FileKind(kind)}
		if rec.Kind == domain.KindGraphDoc {
			rec.Nodes = []string{}
			rec.Edges = []domain.GraphEdge{}
		}
		doc.Files[path] = rec
	}
	return rows.Err()
}

func (s *Store) loadDiagrams(doc *domain.IndexDocument) error {
	rows, err := s.db.Query(`
		SELECT path, type, start_line, message_count
		FROM diagrams ORDER BY path, seq
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var path, typ string
		var d domain.DiagramRecord
		if err := rows.Scan(&path, &typ, &d.StartLine, &d.MessageCount); err != nil {
			return err
		}
		d.Type = domain.DiagramType(typ)
		switch d.Type {
		case domain.DiagramSequence:
			d.Participants = []string{}
		case domain.DiagramFlowchart:
			d.Nodes = []string{}
		}
		if rec := doc.Files[path]; rec != nil {
			rec.Diagrams = append(rec.Diagrams, d)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	idents, err := s.db.Query(`
		SELECT path, seq, role, ident
		FROM diagram_idents ORDER BY path, seq, role, pos
	`)
	if err != nil {
		return err
	}
	defer idents.Close()

	for idents.Next() {
		var path, role, ident string
		var seq int
		if err := idents.Scan(&path, &seq, &role, &ident); err != nil {
			return err
		}
		rec := doc.Files[path]
		if rec == nil || seq >= len(rec.Diagrams) {
			return fmt.Errorf("orphan identifier %q for %s", ident, path)
		}
		d := &rec.Diagrams[seq]
		switch role {
		case roleParticipant:
			d.Participants = append(d.Participants, ident)
		case roleNode:
			d.Nodes = append(d.Nodes, ident)
		}
	}
	return idents.Err()
}

func (s *Store) loadGraphs(doc *domain.IndexDocument) error {
	nodes, err := s.db.Query(`SELECT path, node_id FROM graph_nodes ORDER BY path, pos`)
	if err != nil {
		return err
	}
	defer nodes.Close()

	for nodes.Next() {
		var path, id string
		if err := nodes.Scan(&path, &id); err != nil {
			return err
		}
		if rec := doc.Files[path]; rec != nil {
			rec.Nodes = append(rec.Nodes, id)
		}
	}
	if err := nodes.Err(); err != nil {
		return err
	}

	edges, err := s.db.Query(`SELECT path, from_id, to_id FROM graph_edges ORDER BY path, pos`)
	if err != nil {
		return err
	}
	defer edges.Close()

	for edges.Next() {
		var path string
		var e domain.GraphEdge
		if err := edges.Scan(&path, &e.From, &e.To); err != nil {
			return err
		}
		if rec := doc.Files[path]; rec != nil {
			rec.Edges = append(rec.Edges, e)
		}
	}
	return edges.Err()
}
