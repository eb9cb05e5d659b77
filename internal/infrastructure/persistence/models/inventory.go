package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItemDocument is stored at inventory/{id}
type InventoryItemDocument struct {
	AggregateDocument
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"currentStock"`
	RestockThreshold decimal.Decimal `json:"restockThreshold"`
	MaxStock         decimal.Decimal `json:"maxStock"`
	Location         string          `json:"location"`
	SupplierID       *uuid.UUID      `json:"supplierId,omitempty"`
	SupplierName     string          `json:"supplierName,omitempty"`
	Cost             decimal.Decimal `json:"cost"`
	ExpirationDate   *time.Time      `json:"expirationDate,omitempty"`
	IsActive         bool            `json:"isActive"`
}

// FromDomain populates the document from a domain item; batches are
// stored separately
func (d *InventoryItemDocument) FromDomain(i *inventory.InventoryItem) {
	d.FromDomainAggregateRoot(i.BaseAggregateRoot)
	d.Name = i.Name
	d.Category = i.Category
	d.Unit = i.Unit
	d.CurrentStock = i.CurrentStock
	d.RestockThreshold = i.RestockThreshold
	d.MaxStock = i.MaxStock
	d.Location = i.Location
	d.SupplierID = i.SupplierID
	d.SupplierName = i.SupplierName
	d.Cost = i.Cost
	d.ExpirationDate = i.ExpirationDate
	d.IsActive = i.IsActive
}

// ToDomain converts the document and its batch documents to a domain item
func (d *InventoryItemDocument) ToDomain(batches []*BatchDocument) *inventory.InventoryItem {
	item := &inventory.InventoryItem{
		BaseAggregateRoot: d.ToDomainAggregateRoot(),
		Name:              d.Name,
		Category:          d.Category,
		Unit:              d.Unit,
		CurrentStock:      d.CurrentStock,
		RestockThreshold:  d.RestockThreshold,
		MaxStock:          d.MaxStock,
		Location:          d.Location,
		SupplierID:        d.SupplierID,
		SupplierName:      d.SupplierName,
		Cost:              d.Cost,
		ExpirationDate:    d.ExpirationDate,
		IsActive:          d.IsActive,
	}
	for _, b := range batches {
		item.Batches = append(item.Batches, b.ToDomain())
	}
	return item
}

// BatchDocument is stored at inventory/{itemId}/batches/{batchId}
type BatchDocument struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"itemId"`
	BatchNumber    string          `json:"batchNumber"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate *time.Time      `json:"expirationDate,omitempty"`
	ReceivedAt     time.Time       `json:"receivedAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// FromDomain populates the document from a domain batch
func (d *BatchDocument) FromDomain(b *inventory.Batch) {
	d.ID = b.ID
	d.ItemID = b.ItemID
	d.BatchNumber = b.BatchNumber
	d.Quantity = b.Quantity
	d.ExpirationDate = b.ExpirationDate
	d.ReceivedAt = b.ReceivedAt
	d.CreatedAt = b.CreatedAt
	d.UpdatedAt = b.UpdatedAt
}

// ToDomain converts the document to a domain batch
func (d *BatchDocument) ToDomain() *inventory.Batch {
	return &inventory.Batch{
		BaseEntity: shared.BaseEntity{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		ItemID:         d.ItemID,
		BatchNumber:    d.BatchNumber,
		Quantity:       d.Quantity,
		ExpirationDate: d.ExpirationDate,
		ReceivedAt:     d.ReceivedAt,
	}
}

// StockTransactionDocument is stored at transactions/{id}
type StockTransactionDocument struct {
	ID              uuid.UUID                 `json:"id"`
	ItemID          uuid.UUID                 `json:"itemId"`
	ItemName        string                    `json:"itemName"`
	BatchNumber     string                    `json:"batchNumber,omitempty"`
	Type            inventory.TransactionType `json:"type"`
	Quantity        decimal.Decimal           `json:"quantity"`
	OrderedQuantity decimal.Decimal           `json:"orderedQuantity"`
	Discrepancy     decimal.Decimal           `json:"discrepancy"`
	ReferenceType   inventory.ReferenceType   `json:"referenceType"`
	ReferenceID     string                    `json:"referenceId,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	PerformedBy     string                    `json:"performedBy"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

// FromDomain populates the document from a domain transaction
func (d *StockTransactionDocument) FromDomain(t *inventory.StockTransaction) {
	d.ID = t.ID
	d.ItemID = t.ItemID
	d.ItemName = t.ItemName
	d.BatchNumber = t.BatchNumber
	d.Type = t.Type
	d.Quantity = t.Quantity
	d.OrderedQuantity = t.OrderedQuantity
	d.Discrepancy = t.Discrepancy
	d.ReferenceType = t.ReferenceType
	d.ReferenceID = t.ReferenceID
	d.Notes = t.Notes
	d.PerformedBy = t.PerformedBy
	d.CreatedAt = t.CreatedAt
}

// ToDomain converts the document to a domain transaction
func (d *StockTransactionDocument) ToDomain() *inventory.StockTransaction {
	return &inventory.StockTransaction{
		ID:              d.ID,
		ItemID:          d.ItemID,
		ItemName:        d.ItemName,
		BatchNumber:     d.BatchNumber,
		Type:            d.Type,
		Quantity:        d.Quantity,
		OrderedQuantity: d.OrderedQuantity,
		Discrepancy:     d.Discrepancy,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		Notes:           d.Notes,
		PerformedBy:     d.PerformedBy,
		CreatedAt:       d.CreatedAt,
	}
}
