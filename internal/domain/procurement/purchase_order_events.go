package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "purchase_order"

// Event type constants
const (
	EventTypeOrderCreated       = "PurchaseOrderCreated"
	EventTypeOrderUpdated       = "PurchaseOrderUpdated"
	EventTypeOrderDeleted       = "PurchaseOrderDeleted"
	EventTypeOrderStatusChanged = "PurchaseOrderStatusChanged"
	EventTypeOrderReceived      = "PurchaseOrderReceived"
	EventTypeOrderEmailed       = "PurchaseOrderEmailed"
)

// OrderCreatedEvent is raised when a purchase order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string          `json:"order_number"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *PurchaseOrder, actor shared.Actor, now time.Time) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
		SupplierName:    o.SupplierName,
		TotalAmount:     o.TotalAmount,
		ItemCount:       len(o.Items),
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderCreatedEvent) ActivityAction() string { return shared.ActionCreate }

// Describe implements shared.DescribedEvent
func (e *OrderCreatedEvent) Describe() string {
	return fmt.Sprintf("Created purchase order %s for %s (%d items, total %s)",
		e.OrderNumber, e.SupplierName, e.ItemCount, e.TotalAmount.StringFixed(2))
}

// OrderUpdatedEvent is raised when order details change
type OrderUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderUpdatedEvent creates a new OrderUpdatedEvent
func NewOrderUpdatedEvent(o *PurchaseOrder, actor shared.Actor, now time.Time) *OrderUpdatedEvent {
	return &OrderUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderUpdated, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderUpdatedEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *OrderUpdatedEvent) Describe() string {
	return "Updated purchase order " + e.OrderNumber
}

// OrderDeletedEvent is raised when an order is removed
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(o *PurchaseOrder, actor shared.Actor, now time.Time) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderDeletedEvent) ActivityAction() string { return shared.ActionDelete }

// Describe implements shared.DescribedEvent
func (e *OrderDeletedEvent) Describe() string {
	return "Deleted purchase order " + e.OrderNumber
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
	Reason      string `json:"reason"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *PurchaseOrder, from, to Status, reason string, actor shared.Actor, now time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              to,
		Reason:          reason,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderStatusChangedEvent) ActivityAction() string { return shared.ActionStatusChange }

// Describe implements shared.DescribedEvent
func (e *OrderStatusChangedEvent) Describe() string {
	return fmt.Sprintf("Purchase order %s moved from %s to %s: %s", e.OrderNumber, e.From, e.To, e.Reason)
}

// ReceivedLineInfo summarises one received line for event consumers
type ReceivedLineInfo struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	BatchNumber      string          `json:"batch_number"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	Included         bool            `json:"included"`
}

// OrderReceivedEvent is raised when an order is delivered through receiving
type OrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string             `json:"order_number"`
	SupplierID    uuid.UUID          `json:"supplier_id"`
	ReceivedAt    time.Time          `json:"received_at"`
	OnTime        bool               `json:"on_time"`
	Accurate      bool               `json:"accurate"`
	VerifiedTotal decimal.Decimal    `json:"verified_total"`
	Lines         []ReceivedLineInfo `json:"lines"`
}

// NewOrderReceivedEvent creates a new OrderReceivedEvent
func NewOrderReceivedEvent(o *PurchaseOrder, r *Receipt, actor shared.Actor, now time.Time) *OrderReceivedEvent {
	lines := make([]ReceivedLineInfo, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReceivedLineInfo{
			ItemID:           l.ItemID,
			ItemName:         l.ItemName,
			BatchNumber:      l.BatchNumber,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			Discrepancy:      l.Discrepancy(),
			Included:         l.Included,
		}
	}
	return &OrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceived, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		ReceivedAt:      now,
		OnTime:          o.IsOnTime(),
		Accurate:        r.IsAccurate(),
		VerifiedTotal:   r.VerifiedTotal,
		Lines:           lines,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderReceivedEvent) ActivityAction() string { return shared.ActionReceive }

// Describe implements shared.DescribedEvent
func (e *OrderReceivedEvent) Describe() string {
	discrepancies := 0
	for _, l := range e.Lines {
		if !l.Discrepancy.IsZero() {
			discrepancies++
		}
	}
	return fmt.Sprintf("Received purchase order %s, verified total %s, %d line(s) with discrepancies",
		e.OrderNumber, e.VerifiedTotal.StringFixed(2), discrepancies)
}

// OrderEmailedEvent is raised after an order email was accepted by the mail endpoint
type OrderEmailedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Subject     string `json:"subject"`
}

// NewOrderEmailedEvent creates a new OrderEmailedEvent
func NewOrderEmailedEvent(o *PurchaseOrder, subject string, actor shared.Actor, now time.Time) *OrderEmailedEvent {
	return &OrderEmailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderEmailed, AggregateTypePurchaseOrder, o.ID, actor, now),
		OrderNumber:     o.OrderNumber,
		Subject:         subject,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *OrderEmailedEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *OrderEmailedEvent) Describe() string {
	return fmt.Sprintf("Emailed purchase order %s to supplier (%s)", e.OrderNumber, e.Subject)
}
