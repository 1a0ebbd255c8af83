package commands

import (
	"context"
	"time"

	"diagindex/internal/application"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// BuildResult is the outcome of a build
type BuildResult struct {
	Document *domain.IndexDocument
	Stats    domain.BuildStats

	// Warnings holds per-file failures that were recovered (GraphParseError)
	Warnings []error
}

// BuildCommand builds an index document from the documents under Root.
// Files are processed one at a time; Prior is never modified.
type BuildCommand struct {
	source      ports.DocumentSource
	Root        string
	Prior       *domain.IndexDocument
	Incremental bool

	now func() time.Time
}

// NewBuildCommand creates a new BuildCommand
func NewBuildCommand(source ports.DocumentSource, root string, prior *domain.IndexDocument, incremental bool) *BuildCommand {
	return &BuildCommand{
		source:      source,
		Root:        root,
		Prior:       prior,
		Incremental: incremental,
		now:         time.Now,
	}
}

// Validate checks the command can run
func (c *BuildCommand) Validate() error {
	return application.ValidateRequired("rootDir", c.Root)
}

// Execute runs the build. Scan and read failures abort it; malformed graph
// documents are skipped and reported in BuildResult.Warnings.
func (c *BuildCommand) Execute(ctx context.Context) (*BuildResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := c.now()
	result := &BuildResult{}

	paths, err := c.source.Scan(c.Root)
	if err != nil {
		return nil, &application.ScanError{Root: c.Root, Err: err}
	}
	result.Stats.Scanned = len(paths)

	doc := domain.NewIndexDocument()
	if c.Incremental && c.Prior != nil {
		doc = c.Prior.Clone()
	}

	for _, path := range paths {
		mtime, err := c.source.ModTime(path)
		if err != nil {
			return nil, &application.ReadError{Path: path, Err: err}
		}

		if c.Incremental {
			if prev, ok := doc.Files[path]; ok && prev != nil && prev.ModifiedAt == mtime {
				result.Stats.Skipped++
				continue
			}
		}

		content, err := c.source.ReadFile(path)
		if err != nil {
			return nil, &application.ReadError{Path: path, Err: err}
		}

		kind, _ := domain.KindForPath(path)
		switch kind {
		case domain.KindDiagramDoc:
			diagrams := domain.ParseDiagramDocument(string(content))
			if len(diagrams) == 0 {
				// An existing record for this path is deliberately left as is
				result.Stats.Empty++
				continue
			}
			doc.Files[path] = &domain.FileRecord{
				ModifiedAt: mtime,
				Kind:       domain.KindDiagramDoc,
				Diagrams:   diagrams,
			}
			result.Stats.Processed++

		case domain.KindGraphDoc:
			graph, err := domain.ParseCanvas(content)
			if err != nil {
				result.Warnings = append(result.Warnings, &application.GraphParseError{Path: path, Err: err})
				result.Stats.Failed++
				continue
			}
			doc.Files[path] = &domain.FileRecord{
				ModifiedAt: mtime,
				Kind:       domain.KindGraphDoc,
				Nodes:      graph.Nodes,
				Edges:      graph.Edges,
			}
			result.Stats.Processed++
		}
	}

	doc.Version = domain.IndexVersion
	doc.UpdatedAt = c.now()

	result.Document = doc
	result.Stats.Duration = c.now().Sub(start)
	return result, nil
}
