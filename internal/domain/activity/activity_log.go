package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
)

// Log is an append-only audit entry. Entries are never mutated or deleted.
type Log struct {
	ID          uuid.UUID
	Type        string
	EntityType  string
	EntityID    string
	Details     string
	UserRole    string
	PerformedBy string
	Timestamp   time.Time
}

// TypeFor builds the entry type, e.g. RECEIVE_PURCHASE_ORDER
func TypeFor(action, entityType string) string {
	return action + "_" + strings.ToUpper(entityType)
}

// FromEvent builds a log entry for an audited domain event
func FromEvent(e shared.AuditedEvent) *Log {
	actor := e.EventActor()
	return &Log{
		ID:          uuid.New(),
		Type:        TypeFor(e.ActivityAction(), e.AggregateType()),
		EntityType:  e.AggregateType(),
		EntityID:    e.AggregateID().String(),
		Details:     e.Describe(),
		UserRole:    actor.Role,
		PerformedBy: actor.Username,
		Timestamp:   e.OccurredAt(),
	}
}

// Filter narrows a log query. Zero values mean no restriction.
type Filter struct {
	EntityType string
	EntityID   string
	Limit      int
}

// Matches reports whether the entry passes the filter's entity constraints
func (f Filter) Matches(l *Log) bool {
	if f.EntityType != "" && !strings.EqualFold(f.EntityType, l.EntityType) {
		return false
	}
	if f.EntityID != "" && f.EntityID != l.EntityID {
		return false
	}
	return true
}

// Repository defines the interface for activity log persistence.
// There is no update or delete.
type Repository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *Log) error

	// Find returns entries matching the filter, newest first
	Find(ctx context.Context, filter Filter) ([]*Log, error)
}
