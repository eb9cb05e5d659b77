package persistence

import (
	"context"
	"sync"

	appinv "github.com/hotel/backend/internal/application/inventory"
	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// gatewayLocks serializes read-modify-write transactions per gateway within
// this process. Writes still reach the gateway as one atomic Commit.
var gatewayLocks sync.Map

func lockFor(gw store.Gateway) *sync.Mutex {
	mu, _ := gatewayLocks.LoadOrStore(gw, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// runInTx buffers every write made by fn and commits them together when fn
// succeeds. A failing fn leaves the gateway untouched.
func runInTx(ctx context.Context, gw store.Gateway, fn func(tx *store.Tx) error) error {
	mu := lockFor(gw)
	mu.Lock()
	defer mu.Unlock()

	tx := store.Begin(gw)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DocumentTransactionScope implements inventory.TransactionScope on a store gateway
type DocumentTransactionScope struct {
	gw store.Gateway
}

// NewDocumentTransactionScope creates a new DocumentTransactionScope
func NewDocumentTransactionScope(gw store.Gateway) *DocumentTransactionScope {
	return &DocumentTransactionScope{gw: gw}
}

// Execute runs fn with repositories bound to a single store transaction
func (s *DocumentTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return runInTx(ctx, s.gw, func(tx *store.Tx) error {
		return fn(&documentRepositories{tx: tx})
	})
}

// DocumentOrderScope implements procurement.OrderScope on a store gateway
type DocumentOrderScope struct {
	gw store.Gateway
}

// NewDocumentOrderScope creates a new DocumentOrderScope
func NewDocumentOrderScope(gw store.Gateway) *DocumentOrderScope {
	return &DocumentOrderScope{gw: gw}
}

// Execute runs fn with item, transaction and order repositories bound to one
// store transaction. It shares the gateway lock with DocumentTransactionScope.
func (s *DocumentOrderScope) Execute(ctx context.Context, fn func(repos appproc.OrderRepositories) error) error {
	return runInTx(ctx, s.gw, func(tx *store.Tx) error {
		return fn(&documentRepositories{tx: tx})
	})
}

// documentRepositories hands out repositories scoped to one transaction
type documentRepositories struct {
	tx *store.Tx
}

func (r *documentRepositories) ItemRepo() inventory.ItemRepository {
	return NewDocumentInventoryItemRepository(r.tx)
}

func (r *documentRepositories) TransactionRepo() inventory.TransactionRepository {
	return NewDocumentTransactionRepository(r.tx)
}

func (r *documentRepositories) OrderRepo() procurement.OrderRepository {
	return NewDocumentPurchaseOrderRepository(r.tx)
}

var (
	_ appinv.TransactionScope          = (*DocumentTransactionScope)(nil)
	_ appproc.OrderScope               = (*DocumentOrderScope)(nil)
	_ appinv.TransactionalRepositories = (*documentRepositories)(nil)
	_ appproc.OrderRepositories        = (*documentRepositories)(nil)
)
