package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
)

// AggregateDocument holds the fields common to aggregate root documents
type AggregateDocument struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// FromDomainAggregateRoot populates the document from a domain aggregate root
func (d *AggregateDocument) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	d.ID = a.ID
	d.CreatedAt = a.CreatedAt
	d.UpdatedAt = a.UpdatedAt
	d.Version = a.Version
}

// ToDomainAggregateRoot converts the document to a domain aggregate root
func (d *AggregateDocument) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Version: d.Version,
	}
}
