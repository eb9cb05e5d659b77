package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/activity"
)

// ActivityLogDocument is stored at activityLogs/{id}
type ActivityLogDocument struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Details     string    `json:"details"`
	UserRole    string    `json:"userRole"`
	PerformedBy string    `json:"performedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

// FromDomain populates the document from a domain log entry
func (d *ActivityLogDocument) FromDomain(l *activity.Log) {
	*d = ActivityLogDocument(*l)
}

// ToDomain converts the document to a domain log entry
func (d *ActivityLogDocument) ToDomain() *activity.Log {
	l := activity.Log(*d)
	return &l
}
