package sqlite

import (
	"database/sql"

	"diagindex/internal/domain"
)

// FindNode answers a node lookup directly from the tables. Results are
// ordered like domain.FindNode: by path, then by diagram position.
func (s *Store) FindNode(id string) ([]domain.Location, error) {
	if _, err := s.checkSaved(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT path, NULL AS line, -1 AS seq
		FROM graph_nodes WHERE node_id = ?
		GROUP BY path
		UNION ALL
		SELECT d.path, d.start_line, d.seq
		FROM diagrams d
		WHERE EXISTS (
			SELECT 1 FROM diagram_idents i
			WHERE i.path = d.path AND i.seq = d.seq AND i.ident = ?
		)
		ORDER BY 1, 3
	`, id, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Location
	for rows.Next() {
		var loc domain.Location
		var line sql.NullInt64
		var seq int
		if err := rows.Scan(&loc.File, &line, &seq); err != nil {
			return nil, err
		}
		if line.Valid {
			n := int(line.Int64)
			loc.Line = &n
		}
		results = append(results, loc)
	}

	return results, rows.Err()
}

// ListFiles returns the indexed files in path order, optionally
// restricted to one kind
func (s *Store) ListFiles(kind domain.FileKind) ([]domain.FileSummary, error) {
	if _, err := s.checkSaved(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT f.path, f.kind, f.mtime,
			(SELECT COUNT(*) FROM diagrams d WHERE d.path = f.path),
			(SELECT COUNT(*) FROM graph_nodes n WHERE n.path = f.path),
			(SELECT COUNT(*) FROM graph_edges e WHERE e.path = f.path)
		FROM files f
		WHERE ? = '' OR f.kind = ?
		ORDER BY f.path
	`, string(kind), string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.FileSummary
	for rows.Next() {
		var f domain.FileSummary
		var k string
		if err := rows.Scan(&f.Path, &k, &f.ModifiedAt, &f.Diagrams, &f.Nodes, &f.Edges); err != nil {
			return nil, err
		}
		f.Kind = domain.FileKind(k)
		files = append(files, f)
	}

	return files, rows.Err()
}
