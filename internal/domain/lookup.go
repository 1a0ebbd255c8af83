package domain

import (
	"fmt"
	"slices"
)

// FindNode returns every location where id is a graph node, a sequence
// participant or a flowchart node. Matching is exact and case-sensitive.
// Files are visited in path order, diagrams in source order.
func FindNode(doc *IndexDocument, id string) []Location {
	if doc == nil {
		return nil
	}

	var results []Location
	for _, path := range SortedPaths(doc) {
		rec := doc.Files[path]
		if rec == nil {
			continue
		}

		switch rec.Kind {
		case KindGraphDoc:
			if slices.Contains(rec.Nodes, id) {
				results = append(results, Location{File: path})
			}
		case KindDiagramDoc:
			for _, d := range rec.Diagrams {
				if d.Mentions(id) {
					line := d.StartLine
					results = append(results, Location{File: path, Line: &line})
				}
			}
		}
	}

	return results
}

// SortedPaths returns the document's file paths in lexical order
func SortedPaths(doc *IndexDocument) []string {
	paths := make([]string, 0, len(doc.Files))
	for path := range doc.Files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// String formats the location as file or file:line
func (l Location) String() string {
	if l.Line == nil {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, *l.Line)
}

// FileSummary is one row of a file listing
type FileSummary struct {
	Path       string
	Kind       FileKind
	ModifiedAt int64
	Diagrams   int
	Nodes      int
	Edges      int
}

// ListFiles summarizes the document's files in path order. An empty kind
// lists every file.
func ListFiles(doc *IndexDocument, kind FileKind) []FileSummary {
	if doc == nil {
		return nil
	}

	var files []FileSummary
	for _, path := range SortedPaths(doc) {
		rec := doc.Files[path]
		if rec == nil || (kind != "" && rec.Kind != kind) {
			continue
		}
		files = append(files, FileSummary{
			Path:       path,
			Kind:       rec.Kind,
			ModifiedAt: rec.ModifiedAt,
			Diagrams:   len(rec.Diagrams),
			Nodes:      len(rec.Nodes),
			Edges:      len(rec.Edges),
		})
	}
	return files
}
