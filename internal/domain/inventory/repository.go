package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for inventory item persistence.
// Batches are loaded and saved together with their item.
type ItemRepository interface {
	// FindAll returns every inventory item
	FindAll(ctx context.Context) ([]*InventoryItem, error)

	// FindByID finds an item by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// Save creates or replaces an item and its batches
	Save(ctx context.Context, item *InventoryItem) error

	// Delete removes an item together with its batches
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the interface for the append-only stock movement log
type TransactionRepository interface {
	// Append stores a new transaction
	Append(ctx context.Context, tx *StockTransaction) error

	// FindByItem returns an item's movements, newest first
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*StockTransaction, error)

	// FindByReference returns movements linked to a reference, e.g. a purchase order
	FindByReference(ctx context.Context, refType ReferenceType, refID string) ([]*StockTransaction, error)
}
