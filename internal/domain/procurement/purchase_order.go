package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a purchase order
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusInTransit Status = "in-transit"
	StatusDelivered Status = "delivered"
	StatusRejected  Status = "rejected"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInTransit, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to the target status.
// Transitions only ever advance; rejected and delivered are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved:
		return target == StatusInTransit
	case StatusInTransit:
		return target == StatusDelivered
	case StatusDelivered, StatusRejected:
		return false
	}
	return false
}

// IsTerminal returns true for delivered and rejected
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

// CanReceive returns true if goods may be received in this status
func (s Status) CanReceive() bool {
	return s == StatusApproved || s == StatusInTransit
}

// Priority represents how urgently an order is needed
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// OrderLine is one ordered inventory item
type OrderLine struct {
	ItemID   uuid.UUID
	ItemName string
	Unit     string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// Amount returns Quantity * UnitCost
func (l OrderLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

func (l OrderLine) validate(index int) error {
	if l.ItemID == uuid.Nil {
		return shared.InvalidInput(fmt.Sprintf("Line %d: item ID cannot be empty", index+1))
	}
	if !l.Quantity.IsPositive() {
		return shared.InvalidInput(fmt.Sprintf("Line %d: quantity must be positive", index+1))
	}
	if l.UnitCost.IsNegative() {
		return shared.InvalidInput(fmt.Sprintf("Line %d: unit cost cannot be negative", index+1))
	}
	return nil
}

// StatusChange is one entry of the append-only status history
type StatusChange struct {
	Status    Status
	Reason    string
	ChangedBy string
	ChangedAt time.Time
}

// PurchaseOrder is the aggregate root for a supplier order
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber       string
	SupplierID        uuid.UUID
	SupplierName      string
	Items             []OrderLine
	TotalAmount       decimal.Decimal
	Status            Status
	Priority          Priority
	ExpectedDelivery  *time.Time
	StatusHistory     []StatusChange
	RequestedBy       string
	ApprovedBy        string
	ApprovedAt        *time.Time
	ReceivedAt        *time.Time
	ActualTotalAmount *decimal.Decimal
	Notes             string
}

// OrderSpec holds the fields required to create a purchase order
type OrderSpec struct {
	OrderNumber      string
	SupplierID       uuid.UUID
	SupplierName     string
	Items            []OrderLine
	Priority         Priority
	ExpectedDelivery *time.Time
	Notes            string
}

// OrderPatch holds optional updates. Items may only change while pending.
type OrderPatch struct {
	SupplierID       *uuid.UUID
	SupplierName     *string
	Items            []OrderLine
	Priority         *Priority
	ExpectedDelivery *time.Time
	Notes            *string
}

// NewPurchaseOrder creates a pending order with its initial history entry
func NewPurchaseOrder(spec OrderSpec, actor shared.Actor, now time.Time) (*PurchaseOrder, error) {
	if strings.TrimSpace(spec.OrderNumber) == "" {
		return nil, shared.InvalidInput("Order number cannot be empty")
	}
	if spec.SupplierID == uuid.Nil {
		return nil, shared.InvalidInput("Supplier ID cannot be empty")
	}
	if spec.Priority == "" {
		spec.Priority = PriorityNormal
	}
	if !spec.Priority.IsValid() {
		return nil, shared.InvalidInput("Invalid priority: " + string(spec.Priority))
	}
	if err := validateLines(spec.Items); err != nil {
		return nil, err
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		OrderNumber:       strings.TrimSpace(spec.OrderNumber),
		SupplierID:        spec.SupplierID,
		SupplierName:      spec.SupplierName,
		Items:             append([]OrderLine(nil), spec.Items...),
		Status:            StatusPending,
		Priority:          spec.Priority,
		ExpectedDelivery:  spec.ExpectedDelivery,
		RequestedBy:       actor.Username,
		Notes:             spec.Notes,
	}
	order.recalculateTotal()
	order.StatusHistory = []StatusChange{{
		Status:    StatusPending,
		Reason:    "Order created",
		ChangedBy: actor.Username,
		ChangedAt: now,
	}}

	order.AddDomainEvent(NewOrderCreatedEvent(order, actor, now))
	return order, nil
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return shared.InvalidInput("Order must contain at least one item")
	}
	for i, l := range lines {
		if err := l.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, l := range o.Items {
		total = total.Add(l.Amount())
	}
	o.TotalAmount = total
}

// Update applies a patch. Line items can only be replaced while the order is pending.
func (o *PurchaseOrder) Update(patch OrderPatch, actor shared.Actor, now time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	if patch.Items != nil {
		if o.Status != StatusPending {
			return shared.NewDomainError("INVALID_STATE", "Line items can only be edited while the order is pending")
		}
		if err := validateLines(patch.Items); err != nil {
			return err
		}
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return shared.InvalidInput("Invalid priority: " + string(*patch.Priority))
	}
	if patch.SupplierID != nil && *patch.SupplierID == uuid.Nil {
		return shared.InvalidInput("Supplier ID cannot be empty")
	}

	if patch.SupplierID != nil {
		o.SupplierID = *patch.SupplierID
	}
	if patch.SupplierName != nil {
		o.SupplierName = *patch.SupplierName
	}
	if patch.Items != nil {
		o.Items = append([]OrderLine(nil), patch.Items...)
		o.recalculateTotal()
	}
	if patch.Priority != nil {
		o.Priority = *patch.Priority
	}
	if patch.ExpectedDelivery != nil {
		d := *patch.ExpectedDelivery
		o.ExpectedDelivery = &d
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}

	o.MarkChanged(now)
	o.AddDomainEvent(NewOrderUpdatedEvent(o, actor, now))
	return nil
}

// Transition moves the order to target and appends one history entry.
// Delivery goes through Receive so that actual quantities are recorded.
func (o *PurchaseOrder) Transition(target Status, reason string, actor shared.Actor, now time.Time) error {
	if !target.IsValid() {
		return shared.InvalidInput("Invalid status: " + string(target))
	}
	if target == StatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Orders are marked delivered by receiving them")
	}
	if target == StatusRejected && strings.TrimSpace(reason) == "" {
		return shared.InvalidInput("A reason is required to reject an order")
	}
	return o.transition(target, reason, actor, now)
}

// Approve moves a pending order to approved
func (o *PurchaseOrder) Approve(reason string, actor shared.Actor, now time.Time) error {
	return o.Transition(StatusApproved, reason, actor, now)
}

// Reject moves a pending order to rejected
func (o *PurchaseOrder) Reject(reason string, actor shared.Actor, now time.Time) error {
	return o.Transition(StatusRejected, reason, actor, now)
}

// Dispatch moves an approved order to in-transit
func (o *PurchaseOrder) Dispatch(reason string, actor shared.Actor, now time.Time) error {
	return o.Transition(StatusInTransit, reason, actor, now)
}

func (o *PurchaseOrder) transition(target Status, reason string, actor shared.Actor, now time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	if reason == "" {
		reason = defaultReason(target)
	}

	from := o.Status
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    target,
		Reason:    reason,
		ChangedBy: actor.Username,
		ChangedAt: now,
	})
	if target == StatusApproved {
		o.ApprovedBy = actor.Username
		approvedAt := now
		o.ApprovedAt = &approvedAt
	}
	o.MarkChanged(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target, reason, actor, now))
	return nil
}

func defaultReason(target Status) string {
	switch target {
	case StatusApproved:
		return "Order approved"
	case StatusInTransit:
		return "Order dispatched by supplier"
	case StatusDelivered:
		return "Order received"
	}
	return ""
}

// Receive records delivery of a receipt. An approved order is first advanced
// to in-transit so the history stays monotone.
func (o *PurchaseOrder) Receive(receipt *Receipt, actor shared.Actor, now time.Time) error {
	if !o.Status.CanReceive() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if receipt == nil || receipt.OrderID != o.ID {
		return shared.InvalidInput("Receipt does not belong to this order")
	}

	if o.Status == StatusApproved {
		if err := o.transition(StatusInTransit, "Advanced to in-transit on receipt", actor, now); err != nil {
			return err
		}
	}
	if err := o.transition(StatusDelivered, receipt.Summary(), actor, now); err != nil {
		return err
	}

	receivedAt := now
	o.ReceivedAt = &receivedAt
	verified := receipt.VerifiedTotal
	o.ActualTotalAmount = &verified

	o.AddDomainEvent(NewOrderReceivedEvent(o, receipt, actor, now))
	return nil
}

// IsOnTime reports whether the order was received by the end of its expected
// delivery day. Orders without an expected date count as on time.
func (o *PurchaseOrder) IsOnTime() bool {
	if o.ReceivedAt == nil {
		return false
	}
	if o.ExpectedDelivery == nil {
		return true
	}
	e := o.ExpectedDelivery.UTC()
	deadline := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return o.ReceivedAt.Before(deadline)
}

// SpentAmount is the amount that counts against the budget: the verified
// total when known, else the ordered total.
func (o *PurchaseOrder) SpentAmount() decimal.Decimal {
	if o.ActualTotalAmount != nil {
		return *o.ActualTotalAmount
	}
	return o.TotalAmount
}

// CanModify returns true if the order's lines can still be edited
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == StatusPending
}

// MarkDeleted records the deletion event before the order is removed
func (o *PurchaseOrder) MarkDeleted(actor shared.Actor, now time.Time) {
	o.AddDomainEvent(NewOrderDeletedEvent(o, actor, now))
}

// OrderNumberPrefix returns the per-day order number prefix, PO-yyyyMMdd-
func OrderNumberPrefix(day time.Time) string {
	return "PO-" + day.Format("20060102") + "-"
}

// NextOrderNumber returns the next free PO-yyyyMMdd-nnnn number given the
// numbers already in use.
func NextOrderNumber(day time.Time, existing []string) string {
	prefix := OrderNumberPrefix(day)
	highest := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		var seq int
		if _, err := fmt.Sscanf(strings.TrimPrefix(number, prefix), "%d", &seq); err == nil && seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%04d", prefix, highest+1)
}
