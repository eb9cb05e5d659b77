package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/hotel/backend/internal/domain/activity"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentActivityLogRepository implements activity.Repository
type DocumentActivityLogRepository struct {
	st store.Store
}

// NewDocumentActivityLogRepository creates a new activity log repository
func NewDocumentActivityLogRepository(st store.Store) *DocumentActivityLogRepository {
	return &DocumentActivityLogRepository{st: st}
}

// Append stores a new entry
func (r *DocumentActivityLogRepository) Append(ctx context.Context, entry *activity.Log) error {
	var doc models.ActivityLogDocument
	doc.FromDomain(entry)
	if err := r.st.Set(ctx, store.Join(store.CollectionActivityLogs, entry.ID.String()), doc); err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// Find returns entries matching the filter, newest first
func (r *DocumentActivityLogRepository) Find(ctx context.Context, filter activity.Filter) ([]*activity.Log, error) {
	docs, err := listDocuments[models.ActivityLogDocument](ctx, r.st, store.CollectionActivityLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	var out []*activity.Log
	for _, d := range docs {
		if l := d.ToDomain(); filter.Matches(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

var _ activity.Repository = (*DocumentActivityLogRepository)(nil)
