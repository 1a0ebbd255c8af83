package domain

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"time"
)

// IndexVersion is the format tag written to every built index
const IndexVersion = "1.0"

const (
	DiagramDocExt = ".md"
	GraphDocExt   = ".canvas"
)

// FileKind discriminates the two indexed document formats
type FileKind string

const (
	KindDiagramDoc FileKind = "diagramDoc"
	KindGraphDoc   FileKind = "graphDoc"
)

// KindForPath returns the document kind for a path based on its extension
func KindForPath(path string) (FileKind, bool) {
	switch filepath.Ext(path) {
	case DiagramDocExt:
		return KindDiagramDoc, true
	case GraphDocExt:
		return KindGraphDoc, true
	default:
		return "", false
	}
}

// IndexDocument is the persisted root of the index
type IndexDocument struct {
	Version   string                 `json:"version"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Files     map[string]*FileRecord `json:"files"`
}

// NewIndexDocument returns an empty document tagged with the current version
func NewIndexDocument() *IndexDocument {
	return &IndexDocument{
		Version: IndexVersion,
		Files:   make(map[string]*FileRecord),
	}
}

// Clone returns a copy whose Files map can be mutated without touching d.
// Records are shared: they are replaced wholesale, never edited in place.
func (d *IndexDocument) Clone() *IndexDocument {
	if d == nil {
		return NewIndexDocument()
	}
	files := maps.Clone(d.Files)
	if files == nil {
		files = make(map[string]*FileRecord)
	}
	return &IndexDocument{
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
		Files:     files,
	}
}

// FileRecord is one indexed file
type FileRecord struct {
	ModifiedAt int64    `json:"modifiedAt"` // ms since epoch
	Kind       FileKind `json:"kind"`

	// diagramDoc
	Diagrams []DiagramRecord `json:"diagrams,omitempty"`

	// graphDoc
	Nodes []string    `json:"nodes,omitempty"`
	Edges []GraphEdge `json:"edges,omitempty"`
}

// MarshalJSON emits only the fields that belong to the record's kind
func (r FileRecord) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindDiagramDoc:
		return json.Marshal(struct {
			ModifiedAt int64           `json:"modifiedAt"`
			Kind       FileKind        `json:"kind"`
			Diagrams   []DiagramRecord `json:"diagrams"`
		}{r.ModifiedAt, r.Kind, nonNil(r.Diagrams)})
	case KindGraphDoc:
		return json.Marshal(struct {
			ModifiedAt int64       `json:"modifiedAt"`
			Kind       FileKind    `json:"kind"`
			Nodes      []string    `json:"nodes"`
			Edges      []GraphEdge `json:"edges"`
		}{r.ModifiedAt, r.Kind, nonNil(r.Nodes), nonNil(r.Edges)})
	default:
		return json.Marshal(struct {
			ModifiedAt int64    `json:"modifiedAt"`
			Kind       FileKind `json:"kind"`
		}{r.ModifiedAt, r.Kind})
	}
}

// GraphEdge is a directed edge between two graph node identifiers
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Location is a single lookup hit. Line is nil for graph documents.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line *int   `json:"line,omitempty" yaml:"line,omitempty"`
}

// BuildStats holds statistics from a build
type BuildStats struct {
	Scanned   int
	Processed int
	Skipped   int
	Failed    int
	Empty     int
	Duration  time.Duration
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
