package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of stock movement
type TransactionType string

const (
	// TransactionTypeReceipt records stock received against a purchase order or batch update
	TransactionTypeReceipt TransactionType = "RECEIPT"
	// TransactionTypeConsumption records stock used by the kitchen or housekeeping
	TransactionTypeConsumption TransactionType = "CONSUMPTION"
	// TransactionTypeAdjustment records a manual correction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReceipt, TransactionTypeConsumption, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies what caused a stock movement
type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeManual        ReferenceType = "MANUAL"
)

// StockTransaction is an append-only record of a stock movement
type StockTransaction struct {
	ID              uuid.UUID
	ItemID          uuid.UUID
	ItemName        string
	BatchNumber     string
	Type            TransactionType
	Quantity        decimal.Decimal
	OrderedQuantity decimal.Decimal
	Discrepancy     decimal.Decimal
	ReferenceType   ReferenceType
	ReferenceID     string
	Notes           string
	PerformedBy     string
	CreatedAt       time.Time
}

// NewStockTransaction creates a stock movement record
func NewStockTransaction(item *InventoryItem, txType TransactionType, batchNumber string, quantity decimal.Decimal, performedBy string, now time.Time) (*StockTransaction, error) {
	if item == nil {
		return nil, shared.InvalidInput("Transaction requires an item")
	}
	if !txType.IsValid() {
		return nil, shared.InvalidInput("Invalid transaction type: " + string(txType))
	}
	if quantity.IsNegative() {
		return nil, shared.InvalidInput("Transaction quantity cannot be negative")
	}
	return &StockTransaction{
		ID:              uuid.New(),
		ItemID:          item.ID,
		ItemName:        item.Name,
		BatchNumber:     batchNumber,
		Type:            txType,
		Quantity:        quantity,
		OrderedQuantity: quantity,
		Discrepancy:     decimal.Zero,
		ReferenceType:   ReferenceTypeManual,
		PerformedBy:     performedBy,
		CreatedAt:       now,
	}, nil
}

// WithPurchaseOrder links the movement to a purchase order receipt and
// records the ordered quantity and signed discrepancy in its notes.
func (t *StockTransaction) WithPurchaseOrder(orderID uuid.UUID, orderNumber, unit string, ordered decimal.Decimal) *StockTransaction {
	t.ReferenceType = ReferenceTypePurchaseOrder
	t.ReferenceID = orderID.String()
	t.OrderedQuantity = ordered
	t.Discrepancy = t.Quantity.Sub(ordered)
	t.Notes = fmt.Sprintf("Received %s %s (ordered %s, discrepancy %s) for %s, batch %s",
		t.Quantity.String(), unit, ordered.String(), t.Discrepancy.String(), orderNumber, t.BatchNumber)
	return t
}

// WithNotes sets free-text notes
func (t *StockTransaction) WithNotes(notes string) *StockTransaction {
	t.Notes = notes
	return t
}
