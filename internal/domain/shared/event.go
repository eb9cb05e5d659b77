package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// Actor identifies who caused a change
type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// System is the actor for changes made by the service itself
var System = Actor{Username: "system", Role: "system"}

// AttributedEvent is implemented by events that record who caused them
type AttributedEvent interface {
	DomainEvent
	EventActor() Actor
}

// DescribedEvent is implemented by events that carry a human-readable summary
type DescribedEvent interface {
	DomainEvent
	Describe() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregateId"`
	AggType   string    `json:"aggregateType"`
	Actor     Actor     `json:"actor"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// EventActor returns who caused the event
func (e *BaseDomainEvent) EventActor() Actor {
	return e.Actor
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID, actor Actor, at time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: at,
		AggID:     aggID,
		AggType:   aggType,
		Actor:     actor,
	}
}

// Activity actions recorded in the audit log
const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionReceive      = "RECEIVE"
)

// AuditedEvent is implemented by events that produce an activity log entry.
// The entry type is ActivityAction() + "_" + upper-cased AggregateType().
type AuditedEvent interface {
	AttributedEvent
	ActivityAction() string
	Describe() string
}
