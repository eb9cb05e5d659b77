package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	RestockThreshold decimal.Decimal `json:"restock_threshold"`
	MaxStock         decimal.Decimal `json:"max_stock"`
	Location         string          `json:"location"`
	SupplierID       *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName     string          `json:"supplier_name"`
	Cost             decimal.Decimal `json:"cost"`
	StockValue       decimal.Decimal `json:"stock_value"`
	ExpirationDate   *time.Time      `json:"expiration_date,omitempty"`
	NextExpiry       *time.Time      `json:"next_expiry,omitempty"`
	IsActive         bool            `json:"is_active"`
	IsLowStock       bool            `json:"is_low_stock"`
	IsAboveMaximum   bool            `json:"is_above_maximum"`
	BatchCount       int             `json:"batch_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	BatchNumber    string          `json:"batch_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	IsExpired      bool            `json:"is_expired"`
	ReceivedAt     time.Time       `json:"received_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TransactionResponse represents a stock movement in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	PerformedBy     string          `json:"performed_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	Name             string          `json:"name" binding:"required,max=200"`
	Category         string          `json:"category" binding:"max=100"`
	Unit             string          `json:"unit" binding:"required,max=50"`
	InitialStock     decimal.Decimal `json:"initial_stock"`
	RestockThreshold decimal.Decimal `json:"restock_threshold"`
	MaxStock         decimal.Decimal `json:"max_stock"`
	Location         string          `json:"location" binding:"max=100"`
	SupplierID       *uuid.UUID      `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name" binding:"max=200"`
	Cost             decimal.Decimal `json:"cost"`
	ExpirationDate   *time.Time      `json:"expiration_date"`
}

// UpdateItemRequest represents a partial update of an inventory item
type UpdateItemRequest struct {
	Name             *string          `json:"name" binding:"omitempty,max=200"`
	Category         *string          `json:"category" binding:"omitempty,max=100"`
	Unit             *string          `json:"unit" binding:"omitempty,max=50"`
	CurrentStock     *decimal.Decimal `json:"current_stock"`
	RestockThreshold *decimal.Decimal `json:"restock_threshold"`
	MaxStock         *decimal.Decimal `json:"max_stock"`
	Location         *string          `json:"location" binding:"omitempty,max=100"`
	SupplierID       *uuid.UUID       `json:"supplier_id"`
	SupplierName     *string          `json:"supplier_name" binding:"omitempty,max=200"`
	Cost             *decimal.Decimal `json:"cost"`
	ExpirationDate   *time.Time       `json:"expiration_date"`
	IsActive         *bool            `json:"is_active"`
}

// UpdateBatchStockRequest adds received quantity to a batch
type UpdateBatchStockRequest struct {
	BatchNumber    string          `json:"batch_number" binding:"required,max=100"`
	Quantity       decimal.Decimal `json:"quantity" binding:"gt=0"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	Notes          string          `json:"notes" binding:"max=500"`
}

// ConsumeStockRequest removes stock. Without a batch number the earliest
// expiring batches are drawn first.
type ConsumeStockRequest struct {
	BatchNumber string          `json:"batch_number" binding:"max=100"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// BatchStockResponse is the result of a batch stock update
type BatchStockResponse struct {
	Item        InventoryItemResponse `json:"item"`
	Batch       BatchResponse         `json:"batch"`
	Transaction TransactionResponse   `json:"transaction"`
}

// DeductionResponse describes how much was taken from one batch
type DeductionResponse struct {
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// ConsumeStockResponse is the result of a stock consumption
type ConsumeStockResponse struct {
	Item         InventoryItemResponse `json:"item"`
	Deductions   []DeductionResponse   `json:"deductions"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToInventoryItemResponse converts a domain item to a response DTO
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		CurrentStock:     item.CurrentStock,
		RestockThreshold: item.RestockThreshold,
		MaxStock:         item.MaxStock,
		Location:         item.Location,
		SupplierID:       item.SupplierID,
		SupplierName:     item.SupplierName,
		Cost:             item.Cost,
		StockValue:       item.StockValue(),
		ExpirationDate:   item.ExpirationDate,
		NextExpiry:       item.NextExpiry(),
		IsActive:         item.IsActive,
		IsLowStock:       item.IsLowStock(),
		IsAboveMaximum:   item.IsAboveMaximum(),
		BatchCount:       len(item.Batches),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	}
}

// ToInventoryItemResponses converts a slice of domain items
func ToInventoryItemResponses(items []*inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToInventoryItemResponse(item)
	}
	return responses
}

// ToBatchResponse converts a domain batch to a response DTO
func ToBatchResponse(b *inventory.Batch, now time.Time) BatchResponse {
	return BatchResponse{
		ID:             b.ID,
		ItemID:         b.ItemID,
		BatchNumber:    b.BatchNumber,
		Quantity:       b.Quantity,
		ExpirationDate: b.ExpirationDate,
		IsExpired:      b.IsExpired(now),
		ReceivedAt:     b.ReceivedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ToTransactionResponse converts a stock movement to a response DTO
func ToTransactionResponse(tx *inventory.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		ItemID:          tx.ItemID,
		ItemName:        tx.ItemName,
		BatchNumber:     tx.BatchNumber,
		Type:            string(tx.Type),
		Quantity:        tx.Quantity,
		OrderedQuantity: tx.OrderedQuantity,
		Discrepancy:     tx.Discrepancy,
		ReferenceType:   string(tx.ReferenceType),
		ReferenceID:     tx.ReferenceID,
		Notes:           tx.Notes,
		PerformedBy:     tx.PerformedBy,
		CreatedAt:       tx.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of stock movements
func ToTransactionResponses(txs []*inventory.StockTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = ToTransactionResponse(tx)
	}
	return responses
}

func (r UpdateItemRequest) toPatch() inventory.ItemPatch {
	return inventory.ItemPatch{
		Name:             r.Name,
		Category:         r.Category,
		Unit:             r.Unit,
		CurrentStock:     r.CurrentStock,
		RestockThreshold: r.RestockThreshold,
		MaxStock:         r.MaxStock,
		Location:         r.Location,
		SupplierID:       r.SupplierID,
		SupplierName:     r.SupplierName,
		Cost:             r.Cost,
		ExpirationDate:   r.ExpirationDate,
		IsActive:         r.IsActive,
	}
}
