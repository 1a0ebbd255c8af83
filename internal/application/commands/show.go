package commands

import (
	"context"
	"fmt"

	"diagindex/internal/application"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// ShowCommand returns the stored record for a single indexed file
type ShowCommand struct {
	store    ports.IndexStore
	FilePath string
}

// NewShowCommand creates a new ShowCommand
func NewShowCommand(store ports.IndexStore, filePath string) *ShowCommand {
	return &ShowCommand{
		store:    store,
		FilePath: filePath,
	}
}

// Execute loads the index and returns the record for FilePath
func (c *ShowCommand) Execute(ctx context.Context) (*domain.FileRecord, error) {
	if err := application.ValidateRequired("filePath", c.FilePath); err != nil {
		return nil, err
	}

	doc, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading index %s: %w", c.store.Location(), err)
	}

	rec, ok := doc.Files[c.FilePath]
	if !ok || rec == nil {
		return nil, fmt.Errorf("%s: %w", c.FilePath, application.ErrNotFound)
	}
	return rec, nil
}
