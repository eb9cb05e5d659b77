package activity

import (
	"context"

	"github.com/hotel/backend/internal/domain/activity"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder appends an audit entry for every audited domain event. A failed
// append is logged and dropped; it never affects the change that raised it.
type Recorder struct {
	repo   activity.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo activity.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes returns nil so the recorder receives every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle records audited events and ignores the rest
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	audited, ok := event.(shared.AuditedEvent)
	if !ok {
		return nil
	}
	entry := activity.FromEvent(audited)
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Warn("Failed to record activity",
			zap.String("type", entry.Type),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
	return nil
}
