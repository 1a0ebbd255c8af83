package commands

import (
	"context"
	"fmt"

	"diagindex/internal/application"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// FindCommand looks up every location of a node identifier in a stored index
type FindCommand struct {
	store  ports.IndexStore
	NodeID string
}

// NewFindCommand creates a new FindCommand
func NewFindCommand(store ports.IndexStore, nodeID string) *FindCommand {
	return &FindCommand{
		store:  store,
		NodeID: nodeID,
	}
}

// Execute loads the index and returns the matching locations
func (c *FindCommand) Execute(ctx context.Context) ([]domain.Location, error) {
	if err := application.ValidateRequired("nodeID", c.NodeID); err != nil {
		return nil, err
	}

	if finder, ok := c.store.(ports.NodeFinder); ok {
		results, err := finder.FindNode(c.NodeID)
		if err != nil {
			return nil, fmt.Errorf("loading index %s: %w", c.store.Location(), err)
		}
		return results, nil
	}

	doc, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading index %s: %w", c.store.Location(), err)
	}

	return domain.FindNode(doc, c.NodeID), nil
}
