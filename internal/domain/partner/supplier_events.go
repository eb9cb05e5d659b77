package partner

import (
	"time"

	"github.com/hotel/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSupplier = "supplier"

// Event type constants
const (
	EventTypeSupplierCreated  = "SupplierCreated"
	EventTypeSupplierUpdated  = "SupplierUpdated"
	EventTypeSupplierApproved = "SupplierApproved"
	EventTypeSupplierDeleted  = "SupplierDeleted"
)

// SupplierEvent carries the supplier name for every supplier lifecycle event
type SupplierEvent struct {
	shared.BaseDomainEvent
	Name   string `json:"name"`
	action string
	verb   string
}

// ActivityAction implements shared.AuditedEvent
func (e *SupplierEvent) ActivityAction() string { return e.action }

// Describe implements shared.DescribedEvent
func (e *SupplierEvent) Describe() string {
	return e.verb + " supplier " + e.Name
}

func newSupplierEvent(eventType, action, verb string, s *Supplier, actor shared.Actor, now time.Time) *SupplierEvent {
	return &SupplierEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSupplier, s.ID, actor, now),
		Name:            s.Name,
		action:          action,
		verb:            verb,
	}
}

// NewSupplierCreatedEvent creates a SupplierCreated event
func NewSupplierCreatedEvent(s *Supplier, actor shared.Actor, now time.Time) *SupplierEvent {
	return newSupplierEvent(EventTypeSupplierCreated, shared.ActionCreate, "Created", s, actor, now)
}

// NewSupplierUpdatedEvent creates a SupplierUpdated event
func NewSupplierUpdatedEvent(s *Supplier, actor shared.Actor, now time.Time) *SupplierEvent {
	return newSupplierEvent(EventTypeSupplierUpdated, shared.ActionUpdate, "Updated", s, actor, now)
}

// NewSupplierApprovedEvent creates a SupplierApproved event
func NewSupplierApprovedEvent(s *Supplier, actor shared.Actor, now time.Time) *SupplierEvent {
	return newSupplierEvent(EventTypeSupplierApproved, shared.ActionStatusChange, "Approved", s, actor, now)
}

// NewSupplierDeletedEvent creates a SupplierDeleted event
func NewSupplierDeletedEvent(s *Supplier, actor shared.Actor, now time.Time) *SupplierEvent {
	return newSupplierEvent(EventTypeSupplierDeleted, shared.ActionDelete, "Deleted", s, actor, now)
}
