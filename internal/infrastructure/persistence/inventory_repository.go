package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentInventoryItemRepository implements inventory.ItemRepository.
// Items live at inventory/{id} and their batches at inventory/{id}/batches/{batchId}.
type DocumentInventoryItemRepository struct {
	st store.Store
}

// NewDocumentInventoryItemRepository creates a new item repository
func NewDocumentInventoryItemRepository(st store.Store) *DocumentInventoryItemRepository {
	return &DocumentInventoryItemRepository{st: st}
}

func itemPath(id uuid.UUID) string {
	return store.Join(store.CollectionInventory, id.String())
}

func batchCollection(itemID uuid.UUID) string {
	return store.Join(store.CollectionInventory, itemID.String(), store.SubcollectionBatches)
}

// FindAll returns every item ordered by name
func (r *DocumentInventoryItemRepository) FindAll(ctx context.Context) ([]*inventory.InventoryItem, error) {
	docs, err := listDocuments[models.InventoryItemDocument](ctx, r.st, store.CollectionInventory)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	items := make([]*inventory.InventoryItem, 0, len(docs))
	for _, doc := range docs {
		item, err := r.load(ctx, doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// FindByID finds an item by ID
func (r *DocumentInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	doc, err := getDocument[models.InventoryItemDocument](ctx, r.st, itemPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return r.load(ctx, doc)
}

func (r *DocumentInventoryItemRepository) load(ctx context.Context, doc *models.InventoryItemDocument) (*inventory.InventoryItem, error) {
	batches, err := listDocuments[models.BatchDocument](ctx, r.st, batchCollection(doc.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list batches of %s: %w", doc.ID, err)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
	})
	return doc.ToDomain(batches), nil
}

// Save writes the item and all of its batches
func (r *DocumentInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	ops, err := itemOps(item)
	if err != nil {
		return err
	}
	if err := writeOps(ctx, r.st, ops); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

func itemOps(item *inventory.InventoryItem) ([]store.Op, error) {
	var doc models.InventoryItemDocument
	doc.FromDomain(item)
	op, err := store.SetOp(itemPath(item.ID), doc)
	if err != nil {
		return nil, err
	}
	ops := []store.Op{op}
	for _, b := range item.Batches {
		var bd models.BatchDocument
		bd.FromDomain(b)
		op, err := store.SetOp(store.Join(batchCollection(item.ID), b.ID.String()), bd)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Delete removes the item and its batches
func (r *DocumentInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.st.Delete(ctx, itemPath(id)); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// DocumentTransactionRepository implements inventory.TransactionRepository
type DocumentTransactionRepository struct {
	st store.Store
}

// NewDocumentTransactionRepository creates a new stock transaction repository
func NewDocumentTransactionRepository(st store.Store) *DocumentTransactionRepository {
	return &DocumentTransactionRepository{st: st}
}

// Append stores a new transaction
func (r *DocumentTransactionRepository) Append(ctx context.Context, tx *inventory.StockTransaction) error {
	var doc models.StockTransactionDocument
	doc.FromDomain(tx)
	if err := r.st.Set(ctx, store.Join(store.CollectionTransactions, tx.ID.String()), doc); err != nil {
		return fmt.Errorf("failed to append stock transaction: %w", err)
	}
	return nil
}

// FindByItem returns an item's movements, newest first
func (r *DocumentTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.StockTransaction, error) {
	return r.find(ctx, func(d *models.StockTransactionDocument) bool {
		return d.ItemID == itemID
	})
}

// FindByReference returns movements linked to a reference, newest first
func (r *DocumentTransactionRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID string) ([]*inventory.StockTransaction, error) {
	return r.find(ctx, func(d *models.StockTransactionDocument) bool {
		return d.ReferenceType == refType && d.ReferenceID == refID
	})
}

func (r *DocumentTransactionRepository) find(ctx context.Context, match func(*models.StockTransactionDocument) bool) ([]*inventory.StockTransaction, error) {
	docs, err := listDocuments[models.StockTransactionDocument](ctx, r.st, store.CollectionTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transactions: %w", err)
	}
	var out []*inventory.StockTransaction
	for _, d := range docs {
		if match(d) {
			out = append(out, d.ToDomain())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var (
	_ inventory.ItemRepository        = (*DocumentInventoryItemRepository)(nil)
	_ inventory.TransactionRepository = (*DocumentTransactionRepository)(nil)
)
