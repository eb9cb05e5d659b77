package menu

import (
	"context"

	"github.com/google/uuid"
)

// MenuItemRepository defines the interface for menu persistence
type MenuItemRepository interface {
	// FindAll returns every menu item ordered by category and name
	FindAll(ctx context.Context) ([]*MenuItem, error)

	// FindByID finds a menu item by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*MenuItem, error)

	// Save creates or replaces a menu item
	Save(ctx context.Context, item *MenuItem) error

	// Delete removes a menu item
	Delete(ctx context.Context, id uuid.UUID) error
}
