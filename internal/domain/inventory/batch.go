package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OpeningBatchNumber names the batch that absorbs stock recorded before an
// item started tracking batches.
const OpeningBatchNumber = "OPENING"

// Batch is a dated, quantity-tracked sub-lot of an inventory item
type Batch struct {
	shared.BaseEntity
	ItemID         uuid.UUID
	BatchNumber    string
	Quantity       decimal.Decimal
	ExpirationDate *time.Time
	ReceivedAt     time.Time
}

// NewBatch creates an empty batch under the given item
func NewBatch(itemID uuid.UUID, batchNumber string, expirationDate *time.Time, now time.Time) (*Batch, error) {
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.InvalidInput("Batch number cannot be empty")
	}
	return &Batch{
		BaseEntity:     shared.NewBaseEntity(now),
		ItemID:         itemID,
		BatchNumber:    batchNumber,
		Quantity:       decimal.Zero,
		ExpirationDate: expirationDate,
		ReceivedAt:     now,
	}, nil
}

// Add increases the batch quantity
func (b *Batch) Add(quantity decimal.Decimal, now time.Time) {
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = now
}

// Deduct reduces the batch quantity, failing when the batch holds less than requested
func (b *Batch) Deduct(quantity decimal.Decimal, now time.Time) error {
	if quantity.GreaterThan(b.Quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			"Batch "+b.BatchNumber+" holds "+b.Quantity.String()+", cannot deduct "+quantity.String())
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = now
	return nil
}

// HasStock returns true if the batch has available quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch expired before now
func (b *Batch) IsExpired(now time.Time) bool {
	return b.ExpirationDate != nil && b.ExpirationDate.Before(now)
}

// WillExpireWithin returns true if the batch expires before now+window
func (b *Batch) WillExpireWithin(now time.Time, window time.Duration) bool {
	return b.ExpirationDate != nil && !b.ExpirationDate.After(now.Add(window))
}

// BatchDeduction records how much was taken from one batch
type BatchDeduction struct {
	BatchNumber string
	Quantity    decimal.Decimal
	Remaining   decimal.Decimal
}

// sortFEFO orders batches earliest expiry first; batches without expiry go
// last, ties fall back to receipt order.
func sortFEFO(batches []*Batch) []*Batch {
	sorted := make([]*Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i].ExpirationDate, sorted[j].ExpirationDate
		switch {
		case ei != nil && ej != nil && !ei.Equal(*ej):
			return ei.Before(*ej)
		case ei != nil && ej == nil:
			return true
		case ei == nil && ej != nil:
			return false
		}
		return sorted[i].ReceivedAt.Before(sorted[j].ReceivedAt)
	})
	return sorted
}
