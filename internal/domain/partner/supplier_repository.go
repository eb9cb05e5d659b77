package partner

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindAll returns every supplier ordered by name
	FindAll(ctx context.Context) ([]*Supplier, error)

	// FindByID finds a supplier by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindApproved returns approved suppliers ordered by name
	FindApproved(ctx context.Context) ([]*Supplier, error)

	// Save creates or replaces a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// Delete removes a supplier
	Delete(ctx context.Context, id uuid.UUID) error
}
