package commands

import (
	"errors"
	"io/fs"

	"diagindex/internal/domain"
)

type fakeFile struct {
	mtime   int64
	content string
	readErr error
}

// fakeSource is an in-memory ports.DocumentSource that scans in insertion order
type fakeSource struct {
	order   []string
	files   map[string]*fakeFile
	scanErr error
	reads   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{files: make(map[string]*fakeFile)}
}

func (s *fakeSource) put(path string, mtime int64, content string) *fakeSource {
	if _, ok := s.files[path]; !ok {
		s.order = append(s.order, path)
	}
	s.files[path] = &fakeFile{mtime: mtime, content: content}
	return s
}

func (s *fakeSource) remove(path string) {
	delete(s.files, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *fakeSource) Scan(root string) ([]string, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []string
	for _, p := range s.order {
		if _, ok := domain.KindForPath(p); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeSource) ModTime(path string) (int64, error) {
	f, ok := s.files[path]
	if !ok {
		return 0, fs.ErrNotExist
	}
	return f.mtime, nil
}

func (s *fakeSource) ReadFile(path string) ([]byte, error) {
	f, ok := s.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	s.reads = append(s.reads, path)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []byte(f.content), nil
}

// memoryStore is an in-memory ports.IndexStore
type memoryStore struct {
	doc     *domain.IndexDocument
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryStore) Load() (*domain.IndexDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.doc == nil {
		return nil, fs.ErrNotExist
	}
	return m.doc, nil
}

func (m *memoryStore) Save(doc *domain.IndexDocument) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = doc
	m.saves++
	return nil
}

func (m *memoryStore) Location() string { return "memory" }

var errPermission = errors.New("permission denied")

const (
	seqDoc    = "# Notes\n\n```mermaid\nsequenceDiagram\nparticipant A\nA->>B: hello\n```\n"
	flowDoc   = "```mermaid\nflowchart\nA[Start] --> B(End)\n```\n"
	canvasDoc = `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"fromNode":"a","toNode":"b"}]}`
)
