package sqlite

import (
	"database/sql"

	"diagindex/internal/domain"
)

const (
	roleParticipant = "participant"
	roleNode        = "node"
)

// saveTx wraps the transaction used by Save
type saveTx struct {
	tx *sql.Tx
}

func (s *Store) beginTx() (*saveTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &saveTx{tx: tx}, nil
}

// clear removes every stored record
func (t *saveTx) clear() error {
	for _, table := range []string{"files", "diagrams", "diagram_idents", "graph_nodes", "graph_edges", "meta"} {
		if _, err := t.tx.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}
	return nil
}

// insertFile writes a file record and its children
func (t *saveTx) insertFile(path string, rec *domain.FileRecord) error {
	_, err := t.tx.Exec(`
		INSERT INTO files (path, kind, mtime) VALUES (?, ?, ?)
	`, path, string(rec.Kind), rec.ModifiedAt)
	if err != nil {
		return err
	}

	for seq, d := range rec.Diagrams {
		if err := t.insertDiagram(path, seq, d); err != nil {
			return err
		}
	}

	for pos, id := range rec.Nodes {
		if _, err := t.tx.Exec(`
			INSERT INTO graph_nodes (path, pos, node_id) VALUES (?, ?, ?)
		`, path, pos, id); err != nil {
			return err
		}
	}

	for pos, e := range rec.Edges {
		if _, err := t.tx.Exec(`
			INSERT INTO graph_edges (path, pos, from_id, to_id) VALUES (?, ?, ?, ?)
		`, path, pos, e.From, e.To); err != nil {
			return err
		}
	}

	return nil
}

func (t *saveTx) insertDiagram(path string, seq int, d domain.DiagramRecord) error {
	_, err := t.tx.Exec(`
		INSERT INTO diagrams (path, seq, type, start_line, message_count)
		VALUES (?, ?, ?, ?, ?)
	`, path, seq, string(d.Type), d.StartLine, d.MessageCount)
	if err != nil {
		return err
	}

	if err := t.insertIdents(path, seq, roleParticipant, d.Participants); err != nil {
		return err
	}
	return t.insertIdents(path, seq, roleNode, d.Nodes)
}

func (t *saveTx) insertIdents(path string, seq int, role string, idents []string) error {
	for pos, ident := range idents {
		_, err := t.tx.Exec(`
			INSERT INTO diagram_idents (path, seq, pos, role, ident)
			VALUES (?, ?, ?, ?, ?)
		`, path, seq, pos, role, ident)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeMeta stores the key/value metadata
func (t *saveTx) writeMeta(values map[string]string) error {
	for k, v := range values {
		if _, err := t.tx.Exec(`
			INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)
		`, k, v); err != nil {
			return err
		}
	}
	return nil
}

// Commit commits the transaction
func (t *saveTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *saveTx) Rollback() error {
	return t.tx.Rollback()
}
