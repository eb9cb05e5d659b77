package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceivingService reconciles deliveries against purchase orders
type ReceivingService struct {
	orderRepo      procurement.OrderRepository
	scope          OrderScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(orderRepo procurement.OrderRepository, scope OrderScope, logger *zap.Logger) *ReceivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{
		orderRepo:      orderRepo,
		scope:          scope,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Prepare returns the default receipt: every line included and received as ordered
func (s *ReceivingService) Prepare(ctx context.Context, orderID uuid.UUID) (*ReceiptResponse, error) {
	order, err := s.receivableOrder(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(order, procurement.PrepareReceipt(order))
	return &resp, nil
}

// Preview applies the operator's adjustments and returns discrepancies, line
// costs and the verified total without writing anything.
func (s *ReceivingService) Preview(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiptResponse, error) {
	order, err := s.receivableOrder(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	receipt, err := procurement.BuildReceipt(order, toReceiptInputs(req.Lines))
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(order, receipt)
	return &resp, nil
}

// Confirm books a delivery. Every counted line is added to its batch and
// recorded as a RECEIPT movement carrying the discrepancy, then the order is
// marked delivered with the verified total. All writes commit together.
func (s *ReceivingService) Confirm(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResult, error) {
	now := s.now()
	var (
		order   *procurement.PurchaseOrder
		receipt *procurement.Receipt
		items   []*inventory.InventoryItem
		txs     []*inventory.StockTransaction
	)
	err := s.scope.Execute(ctx, func(repos OrderRepositories) error {
		var err error
		order, err = s.receivableOrder(ctx, repos.OrderRepo(), orderID)
		if err != nil {
			return err
		}
		receipt, err = procurement.BuildReceipt(order, toReceiptInputs(req.Lines))
		if err != nil {
			return err
		}

		items, txs = items[:0], txs[:0]
		byID := make(map[uuid.UUID]*inventory.InventoryItem)
		for _, line := range receipt.CountedLines() {
			item, ok := byID[line.ItemID]
			if !ok {
				item, err = repos.ItemRepo().FindByID(ctx, line.ItemID)
				if err != nil {
					return fmt.Errorf("load inventory item: %w", err)
				}
				if item == nil {
					return shared.NotFound("Inventory item "+line.ItemName, line.ItemID.String())
				}
				byID[line.ItemID] = item
				items = append(items, item)
			}

			batch, err := item.ReceiveIntoBatch(line.BatchNumber, line.ReceivedQuantity, line.ExpirationDate, actor, now)
			if err != nil {
				return err
			}
			tx, err := inventory.NewStockTransaction(item, inventory.TransactionTypeReceipt, batch.BatchNumber, line.ReceivedQuantity, actor.Username, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx.WithPurchaseOrder(order.ID, order.OrderNumber, line.Unit, line.OrderedQuantity))
		}

		if err := order.Receive(receipt, actor, now); err != nil {
			return err
		}

		for _, item := range items {
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return fmt.Errorf("save inventory item: %w", err)
			}
		}
		for _, tx := range txs {
			if err := repos.TransactionRepo().Append(ctx, tx); err != nil {
				return fmt.Errorf("append stock transaction: %w", err)
			}
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Receiving failed",
			zap.String("order_id", orderID.String()),
			zap.String("performed_by", actor.Username),
			zap.Error(err))
		return nil, err
	}

	for _, item := range items {
		if events := item.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			item.ClearDomainEvents()
		}
	}
	publishOrderEvents(ctx, s.eventPublisher, order)

	s.logger.Info("Purchase order received",
		zap.String("order_number", order.OrderNumber),
		zap.String("verified_total", receipt.VerifiedTotal.StringFixed(2)),
		zap.Int("movements", len(txs)),
		zap.String("received_by", actor.Username))

	txResponses := make([]inventoryapp.TransactionResponse, len(txs))
	for i, tx := range txs {
		txResponses[i] = inventoryapp.ToTransactionResponse(tx)
	}
	return &ReceiveResult{
		Order:        ToPurchaseOrderResponse(order),
		Receipt:      ToReceiptResponse(order, receipt),
		Transactions: txResponses,
		ReceivedAt:   now,
		ReceivedBy:   actor.Username,
	}, nil
}

func (s *ReceivingService) receivableOrder(ctx context.Context, repo procurement.OrderRepository, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := loadOrder(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive goods for order %s in %s status", order.OrderNumber, order.Status))
	}
	return order, nil
}
