package inventory

import (
	"fmt"
	"time"

	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "inventory"

// Event type constants
const (
	EventTypeItemCreated         = "InventoryItemCreated"
	EventTypeItemUpdated         = "InventoryItemUpdated"
	EventTypeItemDeleted         = "InventoryItemDeleted"
	EventTypeStockReceived       = "StockReceived"
	EventTypeStockConsumed       = "StockConsumed"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeStockReplenished    = "StockReplenished"
)

// ItemCreatedEvent is raised when an inventory item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	Unit         string          `json:"unit"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *InventoryItem, actor shared.Actor, now time.Time) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
		Category:        item.Category,
		InitialStock:    item.CurrentStock,
		Unit:            item.Unit,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *ItemCreatedEvent) ActivityAction() string { return shared.ActionCreate }

// Describe implements shared.DescribedEvent
func (e *ItemCreatedEvent) Describe() string {
	return fmt.Sprintf("Created inventory item %s with %s %s", e.Name, e.InitialStock.String(), e.Unit)
}

// ItemUpdatedEvent is raised when an inventory item's attributes change
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(item *InventoryItem, actor shared.Actor, now time.Time) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *ItemUpdatedEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *ItemUpdatedEvent) Describe() string {
	return "Updated inventory item " + e.Name
}

// ItemDeletedEvent is raised when an inventory item is removed
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemDeletedEvent creates a new ItemDeletedEvent
func NewItemDeletedEvent(item *InventoryItem, actor shared.Actor, now time.Time) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *ItemDeletedEvent) ActivityAction() string { return shared.ActionDelete }

// Describe implements shared.DescribedEvent
func (e *ItemDeletedEvent) Describe() string {
	return "Deleted inventory item " + e.Name
}

// StockReceivedEvent is raised when quantity is added to a batch
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(item *InventoryItem, batchNumber string, quantity decimal.Decimal, actor shared.Actor, now time.Time) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
		BatchNumber:     batchNumber,
		Quantity:        quantity,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *StockReceivedEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *StockReceivedEvent) Describe() string {
	return fmt.Sprintf("Added %s %s of %s to batch %s (stock now %s)",
		e.Quantity.String(), e.Unit, e.Name, e.BatchNumber, e.CurrentStock.String())
}

// StockConsumedEvent is raised when stock is used
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// NewStockConsumedEvent creates a new StockConsumedEvent
func NewStockConsumedEvent(item *InventoryItem, quantity decimal.Decimal, actor shared.Actor, now time.Time) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockConsumed, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
		Quantity:        quantity,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *StockConsumedEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *StockConsumedEvent) Describe() string {
	return fmt.Sprintf("Consumed %s %s of %s (stock now %s)",
		e.Quantity.String(), e.Unit, e.Name, e.CurrentStock.String())
}

// StockBelowThresholdEvent is raised when stock drops to the restock threshold.
// It is not audited; it feeds metrics and menu availability.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	Name             string          `json:"name"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	RestockThreshold decimal.Decimal `json:"restock_threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(item *InventoryItem, actor shared.Actor, now time.Time) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:             item.Name,
		CurrentStock:     item.CurrentStock,
		RestockThreshold: item.RestockThreshold,
	}
}

// StockReplenishedEvent is raised when stock rises back above the restock threshold
type StockReplenishedEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// NewStockReplenishedEvent creates a new StockReplenishedEvent
func NewStockReplenishedEvent(item *InventoryItem, actor shared.Actor, now time.Time) *StockReplenishedEvent {
	return &StockReplenishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReplenished, AggregateTypeInventoryItem, item.ID, actor, now),
		Name:            item.Name,
		CurrentStock:    item.CurrentStock,
	}
}
