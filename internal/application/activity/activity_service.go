package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/activity"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ActivityLogResponse represents an audit entry in API responses
type ActivityLogResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Details     string    `json:"details"`
	UserRole    string    `json:"user_role"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// ListRequest holds the activity log query parameters
type ListRequest struct {
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	EntityType string `form:"entityType"`
	EntityID   string `form:"entityId"`
}

// ToActivityLogResponse converts a log entry to a response DTO
func ToActivityLogResponse(l *activity.Log) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          l.ID,
		Type:        l.Type,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Details:     l.Details,
		UserRole:    l.UserRole,
		PerformedBy: l.PerformedBy,
		Timestamp:   l.Timestamp,
	}
}

// ActivityService reads the audit trail
type ActivityService struct {
	repo activity.Repository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo activity.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

// List returns entries newest first. The limit defaults to 50 and is capped at 500.
func (s *ActivityService) List(ctx context.Context, req ListRequest) ([]ActivityLogResponse, error) {
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	logs, err := s.repo.Find(ctx, activity.Filter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	responses := make([]ActivityLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToActivityLogResponse(l)
	}
	return responses, nil
}
