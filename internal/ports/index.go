package ports

import "diagindex/internal/domain"

// IndexStore persists a built index document.
type IndexStore interface {
	// Load reads the stored document. A missing store is reported as an
	// error wrapping fs.ErrNotExist.
	Load() (*domain.IndexDocument, error)

	// Save replaces the stored document
	Save(doc *domain.IndexDocument) error

	// Location returns a human readable description of where the index lives
	Location() string
}

// NodeFinder is implemented by stores that can answer a node lookup
// without materializing the whole document.
type NodeFinder interface {
	FindNode(id string) ([]domain.Location, error)
}

// FileLister is implemented by stores that can list their files without
// materializing the whole document.
type FileLister interface {
	ListFiles(kind domain.FileKind) ([]domain.FileSummary, error)
}
