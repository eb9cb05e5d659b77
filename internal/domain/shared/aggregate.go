package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every stored record has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BaseAggregateRoot is embedded by documents that raise domain events.
// Version is informational: the store applies last-write-wins.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates a new base aggregate root at version 1
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(now),
		Version:    1,
	}
}

// MarkChanged stamps a successful mutation
func (a *BaseAggregateRoot) MarkChanged(now time.Time) {
	a.UpdatedAt = now
	a.Version++
}

// AddDomainEvent queues an event for publication after the save
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events once published
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
