package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles inventory item use cases
type InventoryService struct {
	itemRepo       inventory.ItemRepository
	txRepo         inventory.TransactionRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.ItemRepository,
	txRepo inventory.TransactionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		itemRepo:       itemRepo,
		txRepo:         txRepo,
		txScope:        txScope,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns every inventory item ordered by name
func (s *InventoryService) List(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	return ToInventoryItemResponses(items), nil
}

// GetByID returns one inventory item
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.load(ctx, s.itemRepo, id)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryItemResponse(item)
	return &resp, nil
}

// Create creates an inventory item
func (s *InventoryService) Create(ctx context.Context, actor shared.Actor, req CreateItemRequest) (*InventoryItemResponse, error) {
	item, err := inventory.NewInventoryItem(inventory.ItemSpec{
		Name:             req.Name,
		Category:         req.Category,
		Unit:             req.Unit,
		InitialStock:     req.InitialStock,
		RestockThreshold: req.RestockThreshold,
		MaxStock:         req.MaxStock,
		Location:         req.Location,
		SupplierID:       req.SupplierID,
		SupplierName:     req.SupplierName,
		Cost:             req.Cost,
		ExpirationDate:   req.ExpirationDate,
	}, actor, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save inventory item: %w", err)
	}
	s.publish(ctx, item)

	s.logger.Info("Inventory item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.String("performed_by", actor.Username))

	resp := ToInventoryItemResponse(item)
	return &resp, nil
}

// Update applies a partial update to an inventory item
func (s *InventoryService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateItemRequest) (*InventoryItemResponse, error) {
	item, err := s.load(ctx, s.itemRepo, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.toPatch(), actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save inventory item: %w", err)
	}
	s.publish(ctx, item)

	resp := ToInventoryItemResponse(item)
	return &resp, nil
}

// Delete removes an inventory item and its batches
func (s *InventoryService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	item, err := s.load(ctx, s.itemRepo, id)
	if err != nil {
		return err
	}
	item.MarkDeleted(actor, s.now())
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	s.publish(ctx, item)
	return nil
}

// GetLowStock returns active items at or below their restock threshold
func (s *InventoryService) GetLowStock(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	low := make([]*inventory.InventoryItem, 0)
	for _, item := range items {
		if item.IsActive && item.IsLowStock() {
			low = append(low, item)
		}
	}
	return ToInventoryItemResponses(low), nil
}

// GetExpiring returns items with stock expiring within the given number of
// days, already expired stock included, soonest first.
func (s *InventoryService) GetExpiring(ctx context.Context, days int) ([]InventoryItemResponse, error) {
	if days < 0 {
		return nil, shared.InvalidInput("Days cannot be negative")
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	now := s.now()
	expiring := make([]*inventory.InventoryItem, 0)
	for _, item := range items {
		if item.CurrentStock.IsPositive() && item.ExpiresWithin(now, days) {
			expiring = append(expiring, item)
		}
	}
	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].NextExpiry().Before(*expiring[j].NextExpiry())
	})
	return ToInventoryItemResponses(expiring), nil
}

// UpdateBatchStock adds quantity to the named batch, creating it on first
// receipt, and records a RECEIPT movement. Item and movement are written atomically.
func (s *InventoryService) UpdateBatchStock(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateBatchStockRequest) (*BatchStockResponse, error) {
	now := s.now()
	var (
		item  *inventory.InventoryItem
		batch *inventory.Batch
		tx    *inventory.StockTransaction
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = s.load(ctx, repos.ItemRepo(), id)
		if err != nil {
			return err
		}
		batch, err = item.ReceiveIntoBatch(req.BatchNumber, req.Quantity, req.ExpirationDate, actor, now)
		if err != nil {
			return err
		}
		tx, err = inventory.NewStockTransaction(item, inventory.TransactionTypeReceipt, batch.BatchNumber, req.Quantity, actor.Username, now)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			tx.WithNotes(req.Notes)
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return fmt.Errorf("save inventory item: %w", err)
		}
		if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
			return fmt.Errorf("append stock transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, item)

	return &BatchStockResponse{
		Item:        ToInventoryItemResponse(item),
		Batch:       ToBatchResponse(batch, now),
		Transaction: ToTransactionResponse(tx),
	}, nil
}

// ConsumeStock removes stock from a named batch or, without one, from the
// earliest expiring batches. One CONSUMPTION movement is recorded per batch drawn.
func (s *InventoryService) ConsumeStock(ctx context.Context, actor shared.Actor, id uuid.UUID, req ConsumeStockRequest) (*ConsumeStockResponse, error) {
	now := s.now()
	var (
		item       *inventory.InventoryItem
		deductions []inventory.BatchDeduction
		txs        []*inventory.StockTransaction
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = s.load(ctx, repos.ItemRepo(), id)
		if err != nil {
			return err
		}
		deductions, err = item.Consume(req.BatchNumber, req.Quantity, actor, now)
		if err != nil {
			return err
		}

		txs = txs[:0]
		if len(deductions) == 0 {
			tx, err := inventory.NewStockTransaction(item, inventory.TransactionTypeConsumption, "", req.Quantity, actor.Username, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx.WithNotes(req.Notes))
		}
		for _, d := range deductions {
			tx, err := inventory.NewStockTransaction(item, inventory.TransactionTypeConsumption, d.BatchNumber, d.Quantity, actor.Username, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx.WithNotes(req.Notes))
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return fmt.Errorf("save inventory item: %w", err)
		}
		for _, tx := range txs {
			if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
				return fmt.Errorf("append stock transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, item)

	resp := &ConsumeStockResponse{
		Item:         ToInventoryItemResponse(item),
		Deductions:   make([]DeductionResponse, len(deductions)),
		Transactions: ToTransactionResponses(txs),
	}
	for i, d := range deductions {
		resp.Deductions[i] = DeductionResponse{BatchNumber: d.BatchNumber, Quantity: d.Quantity, Remaining: d.Remaining}
	}
	return resp, nil
}

// GetBatches returns an item's batches in receipt order
func (s *InventoryService) GetBatches(ctx context.Context, id uuid.UUID) ([]BatchResponse, error) {
	item, err := s.load(ctx, s.itemRepo, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	batches := make([]BatchResponse, len(item.Batches))
	for i, b := range item.Batches {
		batches[i] = ToBatchResponse(b, now)
	}
	return batches, nil
}

// GetTransactions returns an item's stock movements, newest first
func (s *InventoryService) GetTransactions(ctx context.Context, id uuid.UUID) ([]TransactionResponse, error) {
	if _, err := s.load(ctx, s.itemRepo, id); err != nil {
		return nil, err
	}
	txs, err := s.txRepo.FindByItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	return ToTransactionResponses(txs), nil
}

func (s *InventoryService) load(ctx context.Context, repo inventory.ItemRepository, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load inventory item: %w", err)
	}
	if item == nil {
		return nil, shared.NotFound("Inventory item", id.String())
	}
	return item, nil
}

func (s *InventoryService) publish(ctx context.Context, item *inventory.InventoryItem) {
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}
