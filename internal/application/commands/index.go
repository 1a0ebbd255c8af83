package commands

import (
	"context"
	"fmt"

	"diagindex/internal/application"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// IndexResult is the outcome of an IndexCommand
type IndexResult struct {
	*BuildResult

	// LoadWarning is set when incremental mode could not use the stored index
	LoadWarning error
}

// IndexCommand loads the stored index (incremental mode only), rebuilds it
// from Root and saves the result back to the same store
type IndexCommand struct {
	source      ports.DocumentSource
	store       ports.IndexStore
	Root        string
	Incremental bool
}

// NewIndexCommand creates a new IndexCommand
func NewIndexCommand(source ports.DocumentSource, store ports.IndexStore, root string, incremental bool) *IndexCommand {
	return &IndexCommand{
		source:      source,
		store:       store,
		Root:        root,
		Incremental: incremental,
	}
}

// Execute runs the load, build and save steps
func (c *IndexCommand) Execute(ctx context.Context) (*IndexResult, error) {
	if err := application.ValidateRequired("rootDir", c.Root); err != nil {
		return nil, err
	}

	result := &IndexResult{}

	var prior *domain.IndexDocument
	if c.Incremental {
		doc, err := c.store.Load()
		if err != nil {
			result.LoadWarning = &application.IndexLoadError{Location: c.store.Location(), Err: err}
		} else {
			prior = doc
		}
	}

	build, err := NewBuildCommand(c.source, c.Root, prior, c.Incremental).Execute(ctx)
	if err != nil {
		return nil, err
	}
	result.BuildResult = build

	if prior != nil && prior.Version != domain.IndexVersion {
		build.Warnings = append(build.Warnings,
			fmt.Errorf("index %s had version %q, rewritten as %q", c.store.Location(), prior.Version, domain.IndexVersion))
	}

	if err := c.store.Save(build.Document); err != nil {
		return nil, fmt.Errorf("saving index to %s: %w", c.store.Location(), err)
	}

	return result, nil
}

// Summary formats the processed/skipped counts
func (r *IndexResult) Summary() string {
	return fmt.Sprintf("processed %d files, skipped %d unchanged", r.Stats.Processed, r.Stats.Skipped)
}
