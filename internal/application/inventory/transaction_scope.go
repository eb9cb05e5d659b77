package inventory

import (
	"context"

	"github.com/hotel/backend/internal/domain/inventory"
)

// TransactionScope provides atomic access to the inventory repositories.
// Writes made through the repositories handed to fn become visible together
// when fn returns nil, and not at all otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to one transaction.
//
// Batches belong to the InventoryItem aggregate and are saved with it; they
// have no repository of their own.
type TransactionalRepositories interface {
	ItemRepo() inventory.ItemRepository
	TransactionRepo() inventory.TransactionRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// It is used in tests.
type NoOpTransactionScope struct {
	itemRepo        inventory.ItemRepository
	transactionRepo inventory.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository, transactionRepo inventory.TransactionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// TransactionRepo returns the stock transaction repository
func (s *NoOpTransactionScope) TransactionRepo() inventory.TransactionRepository {
	return s.transactionRepo
}
