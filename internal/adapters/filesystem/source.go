package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// Source implements ports.DocumentSource using the local filesystem
type Source struct{}

// Ensure Source implements DocumentSource
var _ ports.DocumentSource = (*Source)(nil)

// NewSource creates a new filesystem source
func NewSource() *Source {
	return &Source{}
}

// Scan walks root depth-first and returns every diagram or graph document.
// Paths are root joined with the relative path, so a relative root yields
// relative paths. The first traversal error aborts the scan.
func (s *Source) Scan(root string) ([]string, error) {
	root = ExpandHome(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := domain.KindForPath(d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ModTime returns the modification time in ms since epoch
func (s *Source) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixMilli(), nil
}

// ReadFile returns the file's contents
func (s *Source) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
