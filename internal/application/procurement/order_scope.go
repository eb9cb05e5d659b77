package procurement

import (
	"context"

	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
)

// OrderScope runs a purchase order mutation as one atomic unit. Scopes on
// the same store do not interleave, so an order read inside fn is still
// current when fn writes it back. Receiving books batch and item updates,
// stock movements and the delivered state through one scope.
type OrderScope interface {
	Execute(ctx context.Context, fn func(repos OrderRepositories) error) error
}

// OrderRepositories exposes the repositories bound to one order transaction
type OrderRepositories interface {
	ItemRepo() inventory.ItemRepository
	TransactionRepo() inventory.TransactionRepository
	OrderRepo() procurement.OrderRepository
}

// NoOpOrderScope runs fn directly against the given repositories.
// It is used in tests.
type NoOpOrderScope struct {
	itemRepo        inventory.ItemRepository
	transactionRepo inventory.TransactionRepository
	orderRepo       procurement.OrderRepository
}

// NewNoOpOrderScope creates a NoOpOrderScope
func NewNoOpOrderScope(
	itemRepo inventory.ItemRepository,
	transactionRepo inventory.TransactionRepository,
	orderRepo procurement.OrderRepository,
) *NoOpOrderScope {
	return &NoOpOrderScope{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpOrderScope) Execute(_ context.Context, fn func(repos OrderRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpOrderScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// TransactionRepo returns the stock transaction repository
func (s *NoOpOrderScope) TransactionRepo() inventory.TransactionRepository {
	return s.transactionRepo
}

// OrderRepo returns the purchase order repository
func (s *NoOpOrderScope) OrderRepo() procurement.OrderRepository { return s.orderRepo }
