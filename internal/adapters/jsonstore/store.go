package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// DefaultPath is where the index is written when no output is given
const DefaultPath = "./diagram-index.json"

// Store implements ports.IndexStore as a pretty-printed JSON file
type Store struct {
	path string
}

// Ensure Store implements IndexStore
var _ ports.IndexStore = (*Store)(nil)

// NewStore creates a store backed by the file at path
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Location returns the file path
func (s *Store) Location() string {
	return s.path
}

// Load reads and decodes the index file
func (s *Store) Load() (*domain.IndexDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}

	var doc domain.IndexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if doc.Files == nil {
		doc.Files = make(map[string]*domain.FileRecord)
	}

	return &doc, nil
}

// Save writes the document with two-space indentation, replacing the file atomically
func (s *Store) Save(doc *domain.IndexDocument) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".diagindex-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp uses 0600; the index is a regular shared file
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod index file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}

	return nil
}
