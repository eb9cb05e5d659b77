package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem is the aggregate root for a stocked article.
// When batches are tracked, CurrentStock always equals the sum of batch quantities.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name             string
	Category         string
	Unit             string
	CurrentStock     decimal.Decimal
	RestockThreshold decimal.Decimal
	MaxStock         decimal.Decimal
	Location         string
	SupplierID       *uuid.UUID
	SupplierName     string
	Cost             decimal.Decimal
	ExpirationDate   *time.Time
	IsActive         bool
	Batches          []*Batch
}

// ItemSpec holds the fields required to create an inventory item
type ItemSpec struct {
	Name             string
	Category         string
	Unit             string
	InitialStock     decimal.Decimal
	RestockThreshold decimal.Decimal
	MaxStock         decimal.Decimal
	Location         string
	SupplierID       *uuid.UUID
	SupplierName     string
	Cost             decimal.Decimal
	ExpirationDate   *time.Time
}

// ItemPatch holds optional field updates. Nil fields are left untouched.
type ItemPatch struct {
	Name             *string
	Category         *string
	Unit             *string
	CurrentStock     *decimal.Decimal
	RestockThreshold *decimal.Decimal
	MaxStock         *decimal.Decimal
	Location         *string
	SupplierID       *uuid.UUID
	SupplierName     *string
	Cost             *decimal.Decimal
	ExpirationDate   *time.Time
	IsActive         *bool
}

// NewInventoryItem creates a new active inventory item
func NewInventoryItem(spec ItemSpec, actor shared.Actor, now time.Time) (*InventoryItem, error) {
	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              strings.TrimSpace(spec.Name),
		Category:          strings.TrimSpace(spec.Category),
		Unit:              strings.TrimSpace(spec.Unit),
		CurrentStock:      spec.InitialStock,
		RestockThreshold:  spec.RestockThreshold,
		MaxStock:          spec.MaxStock,
		Location:          spec.Location,
		SupplierID:        spec.SupplierID,
		SupplierName:      spec.SupplierName,
		Cost:              spec.Cost,
		ExpirationDate:    spec.ExpirationDate,
		IsActive:          true,
	}
	if err := item.validate(); err != nil {
		return nil, err
	}

	item.AddDomainEvent(NewItemCreatedEvent(item, actor, now))
	return item, nil
}

func (i *InventoryItem) validate() error {
	if i.Name == "" {
		return shared.InvalidInput("Item name cannot be empty")
	}
	if len(i.Name) > 200 {
		return shared.InvalidInput("Item name cannot exceed 200 characters")
	}
	if i.Unit == "" {
		return shared.InvalidInput("Item unit cannot be empty")
	}
	for field, value := range map[string]decimal.Decimal{
		"Current stock":     i.CurrentStock,
		"Restock threshold": i.RestockThreshold,
		"Max stock":         i.MaxStock,
		"Cost":              i.Cost,
	} {
		if value.IsNegative() {
			return shared.InvalidInput(field + " cannot be negative")
		}
	}
	if i.MaxStock.IsPositive() && i.RestockThreshold.GreaterThan(i.MaxStock) {
		return shared.InvalidInput("Restock threshold cannot exceed max stock")
	}
	return nil
}

// Update applies a patch. Stock of batch-tracked items is derived and cannot be patched.
func (i *InventoryItem) Update(patch ItemPatch, actor shared.Actor, now time.Time) error {
	next := *i
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Unit != nil {
		next.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.CurrentStock != nil {
		if i.TracksBatches() && !patch.CurrentStock.Equal(i.CurrentStock) {
			return shared.NewDomainError("INVALID_STATE", "Stock of a batch-tracked item is derived from its batches")
		}
		next.CurrentStock = *patch.CurrentStock
	}
	if patch.RestockThreshold != nil {
		next.RestockThreshold = *patch.RestockThreshold
	}
	if patch.MaxStock != nil {
		next.MaxStock = *patch.MaxStock
	}
	if patch.Location != nil {
		next.Location = *patch.Location
	}
	if patch.SupplierID != nil {
		id := *patch.SupplierID
		next.SupplierID = &id
	}
	if patch.SupplierName != nil {
		next.SupplierName = *patch.SupplierName
	}
	if patch.Cost != nil {
		next.Cost = *patch.Cost
	}
	if patch.ExpirationDate != nil {
		exp := *patch.ExpirationDate
		next.ExpirationDate = &exp
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}
	if err := next.validate(); err != nil {
		return err
	}

	wasLow := i.IsLowStock()
	*i = next
	i.MarkChanged(now)
	i.AddDomainEvent(NewItemUpdatedEvent(i, actor, now))
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i, actor, now))
	}
	return nil
}

// TracksBatches reports whether stock is held in batches
func (i *InventoryItem) TracksBatches() bool {
	return len(i.Batches) > 0
}

// FindBatch returns the batch with the given number, or nil
func (i *InventoryItem) FindBatch(batchNumber string) *Batch {
	batchNumber = strings.TrimSpace(batchNumber)
	for _, b := range i.Batches {
		if strings.EqualFold(b.BatchNumber, batchNumber) {
			return b
		}
	}
	return nil
}

// ReceiveIntoBatch adds quantity to the named batch, creating it on first
// receipt, and recomputes the aggregate stock from the batches.
func (i *InventoryItem) ReceiveIntoBatch(batchNumber string, quantity decimal.Decimal, expirationDate *time.Time, actor shared.Actor, now time.Time) (*Batch, error) {
	if !quantity.IsPositive() {
		return nil, shared.InvalidInput("Received quantity must be positive")
	}

	// Stock recorded before batch tracking moves into an opening batch so the
	// aggregate keeps matching the batch sum.
	if !i.TracksBatches() && i.CurrentStock.IsPositive() {
		opening, err := NewBatch(i.ID, OpeningBatchNumber, i.ExpirationDate, now)
		if err != nil {
			return nil, err
		}
		opening.Add(i.CurrentStock, now)
		i.Batches = append(i.Batches, opening)
	}

	wasLow := i.IsLowStock()
	batch := i.FindBatch(batchNumber)
	if batch == nil {
		var err error
		batch, err = NewBatch(i.ID, batchNumber, expirationDate, now)
		if err != nil {
			return nil, err
		}
		i.Batches = append(i.Batches, batch)
	} else if expirationDate != nil {
		exp := *expirationDate
		batch.ExpirationDate = &exp
	}
	batch.Add(quantity, now)

	i.RecalculateStock()
	i.MarkChanged(now)
	i.AddDomainEvent(NewStockReceivedEvent(i, batch.BatchNumber, quantity, actor, now))
	if wasLow && !i.IsLowStock() {
		i.AddDomainEvent(NewStockReplenishedEvent(i, actor, now))
	}
	return batch, nil
}

// Consume removes quantity from stock. A named batch is drawn from directly;
// otherwise batches are consumed earliest-expiry first.
func (i *InventoryItem) Consume(batchNumber string, quantity decimal.Decimal, actor shared.Actor, now time.Time) ([]BatchDeduction, error) {
	if !quantity.IsPositive() {
		return nil, shared.InvalidInput("Consumed quantity must be positive")
	}
	if quantity.GreaterThan(i.CurrentStock) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Only "+i.CurrentStock.String()+" "+i.Unit+" of "+i.Name+" in stock")
	}

	wasLow := i.IsLowStock()
	var deductions []BatchDeduction
	switch {
	case batchNumber != "":
		batch := i.FindBatch(batchNumber)
		if batch == nil {
			return nil, shared.NotFound("batch", batchNumber)
		}
		if err := batch.Deduct(quantity, now); err != nil {
			return nil, err
		}
		deductions = append(deductions, BatchDeduction{BatchNumber: batch.BatchNumber, Quantity: quantity, Remaining: batch.Quantity})
	case i.TracksBatches():
		remaining := quantity
		for _, batch := range sortFEFO(i.Batches) {
			if remaining.IsZero() {
				break
			}
			if !batch.HasStock() {
				continue
			}
			take := decimal.Min(remaining, batch.Quantity)
			if err := batch.Deduct(take, now); err != nil {
				return nil, err
			}
			remaining = remaining.Sub(take)
			deductions = append(deductions, BatchDeduction{BatchNumber: batch.BatchNumber, Quantity: take, Remaining: batch.Quantity})
		}
	default:
		i.CurrentStock = i.CurrentStock.Sub(quantity)
	}

	i.RecalculateStock()
	i.MarkChanged(now)
	i.AddDomainEvent(NewStockConsumedEvent(i, quantity, actor, now))
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i, actor, now))
	}
	return deductions, nil
}

// RecalculateStock sets CurrentStock to the sum of batch quantities when batches are tracked
func (i *InventoryItem) RecalculateStock() {
	if !i.TracksBatches() {
		return
	}
	total := decimal.Zero
	for _, b := range i.Batches {
		total = total.Add(b.Quantity)
	}
	i.CurrentStock = total
}

// IsLowStock returns true when stock has fallen to the restock threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.RestockThreshold)
}

// IsAboveMaximum returns true when a max stock is set and exceeded
func (i *InventoryItem) IsAboveMaximum() bool {
	return i.MaxStock.IsPositive() && i.CurrentStock.GreaterThan(i.MaxStock)
}

// NextExpiry returns the earliest expiration among stocked batches, falling
// back to the item's own expiration date.
func (i *InventoryItem) NextExpiry() *time.Time {
	var next *time.Time
	for _, b := range i.Batches {
		if !b.HasStock() || b.ExpirationDate == nil {
			continue
		}
		if next == nil || b.ExpirationDate.Before(*next) {
			next = b.ExpirationDate
		}
	}
	if next == nil {
		return i.ExpirationDate
	}
	return next
}

// ExpiresWithin returns true when some stock expires on or before now+days,
// including stock that has already expired.
func (i *InventoryItem) ExpiresWithin(now time.Time, days int) bool {
	next := i.NextExpiry()
	if next == nil {
		return false
	}
	return !next.After(now.AddDate(0, 0, days))
}

// StockValue returns current stock valued at unit cost
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.CurrentStock.Mul(i.Cost)
}

// MarkDeleted records the deletion event before the item is removed
func (i *InventoryItem) MarkDeleted(actor shared.Actor, now time.Time) {
	i.AddDomainEvent(NewItemDeletedEvent(i, actor, now))
}
