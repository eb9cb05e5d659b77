package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// OrderLineDocument is one line of a purchase order document
type OrderLineDocument struct {
	ItemID   uuid.UUID       `json:"itemId"`
	ItemName string          `json:"itemName"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
}

// StatusChangeDocument is one status history entry
type StatusChangeDocument struct {
	Status    procurement.Status `json:"status"`
	Reason    string             `json:"reason,omitempty"`
	ChangedBy string             `json:"changedBy"`
	ChangedAt time.Time          `json:"changedAt"`
}

// PurchaseOrderDocument is stored at purchaseOrders/{id}
type PurchaseOrderDocument struct {
	AggregateDocument
	OrderNumber       string                 `json:"orderNumber"`
	SupplierID        uuid.UUID              `json:"supplierId"`
	SupplierName      string                 `json:"supplierName"`
	Items             []OrderLineDocument    `json:"items"`
	TotalAmount       decimal.Decimal        `json:"totalAmount"`
	Status            procurement.Status     `json:"status"`
	Priority          procurement.Priority   `json:"priority"`
	ExpectedDelivery  *time.Time             `json:"expectedDelivery,omitempty"`
	StatusHistory     []StatusChangeDocument `json:"statusHistory"`
	RequestedBy       string                 `json:"requestedBy"`
	ApprovedBy        string                 `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time             `json:"approvedAt,omitempty"`
	ReceivedAt        *time.Time             `json:"receivedAt,omitempty"`
	ActualTotalAmount *decimal.Decimal       `json:"actualTotalAmount,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
}

// FromDomain populates the document from a domain order
func (d *PurchaseOrderDocument) FromDomain(o *procurement.PurchaseOrder) {
	d.FromDomainAggregateRoot(o.BaseAggregateRoot)
	d.OrderNumber = o.OrderNumber
	d.SupplierID = o.SupplierID
	d.SupplierName = o.SupplierName
	d.Items = make([]OrderLineDocument, len(o.Items))
	for i, l := range o.Items {
		d.Items[i] = OrderLineDocument{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Unit:     l.Unit,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		}
	}
	d.TotalAmount = o.TotalAmount
	d.Status = o.Status
	d.Priority = o.Priority
	d.ExpectedDelivery = o.ExpectedDelivery
	d.StatusHistory = make([]StatusChangeDocument, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		d.StatusHistory[i] = StatusChangeDocument{
			Status:    h.Status,
			Reason:    h.Reason,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}
	d.RequestedBy = o.RequestedBy
	d.ApprovedBy = o.ApprovedBy
	d.ApprovedAt = o.ApprovedAt
	d.ReceivedAt = o.ReceivedAt
	d.ActualTotalAmount = o.ActualTotalAmount
	d.Notes = o.Notes
}

// ToDomain converts the document to a domain order
func (d *PurchaseOrderDocument) ToDomain() *procurement.PurchaseOrder {
	o := &procurement.PurchaseOrder{
		BaseAggregateRoot: d.ToDomainAggregateRoot(),
		OrderNumber:       d.OrderNumber,
		SupplierID:        d.SupplierID,
		SupplierName:      d.SupplierName,
		Items:             make([]procurement.OrderLine, len(d.Items)),
		TotalAmount:       d.TotalAmount,
		Status:            d.Status,
		Priority:          d.Priority,
		ExpectedDelivery:  d.ExpectedDelivery,
		StatusHistory:     make([]procurement.StatusChange, len(d.StatusHistory)),
		RequestedBy:       d.RequestedBy,
		ApprovedBy:        d.ApprovedBy,
		ApprovedAt:        d.ApprovedAt,
		ReceivedAt:        d.ReceivedAt,
		ActualTotalAmount: d.ActualTotalAmount,
		Notes:             d.Notes,
	}
	for i, l := range d.Items {
		o.Items[i] = procurement.OrderLine{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Unit:     l.Unit,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		}
	}
	for i, h := range d.StatusHistory {
		o.StatusHistory[i] = procurement.StatusChange{
			Status:    h.Status,
			Reason:    h.Reason,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}
	return o
}
