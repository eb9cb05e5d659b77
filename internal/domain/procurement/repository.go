package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for purchase order persistence
type OrderRepository interface {
	// FindAll returns every order, newest first
	FindAll(ctx context.Context) ([]*PurchaseOrder, error)

	// FindByID finds an order by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByStatus returns orders in the given status, newest first
	FindByStatus(ctx context.Context, status Status) ([]*PurchaseOrder, error)

	// FindBySupplier returns a supplier's orders
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*PurchaseOrder, error)

	// FindDeliveredBetween returns delivered orders with ReceivedAt in [from, to)
	FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]*PurchaseOrder, error)

	// OrderNumbersWithPrefix returns the order numbers starting with prefix
	OrderNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// Save creates or replaces an order
	Save(ctx context.Context, order *PurchaseOrder) error

	// Delete removes an order
	Delete(ctx context.Context, id uuid.UUID) error
}
