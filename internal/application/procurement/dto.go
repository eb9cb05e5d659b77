package procurement

import (
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                uuid.UUID              `json:"id"`
	OrderNumber       string                 `json:"order_number"`
	SupplierID        uuid.UUID              `json:"supplier_id"`
	SupplierName      string                 `json:"supplier_name"`
	Items             []OrderLineResponse    `json:"items"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	Status            string                 `json:"status"`
	Priority          string                 `json:"priority"`
	ExpectedDelivery  *time.Time             `json:"expected_delivery,omitempty"`
	StatusHistory     []StatusChangeResponse `json:"status_history"`
	RequestedBy       string                 `json:"requested_by"`
	ApprovedBy        string                 `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time             `json:"approved_at,omitempty"`
	ReceivedAt        *time.Time             `json:"received_at,omitempty"`
	ActualTotalAmount *decimal.Decimal       `json:"actual_total_amount,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	CanModify         bool                   `json:"can_modify"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	Version           int                    `json:"version"`
}

// OrderLineResponse represents one ordered line
type OrderLineResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Amount   decimal.Decimal `json:"amount"`
}

// StatusChangeResponse represents one status history entry
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderLineRequest is one requested line. UnitCost defaults to the item's cost.
type OrderLineRequest struct {
	ItemID   uuid.UUID        `json:"item_id" binding:"required"`
	Quantity decimal.Decimal  `json:"quantity" binding:"gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	SupplierID       uuid.UUID          `json:"supplier_id" binding:"required"`
	Items            []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	Priority         string             `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ExpectedDelivery *time.Time         `json:"expected_delivery"`
	Notes            string             `json:"notes" binding:"max=2000"`
}

// UpdateOrderRequest represents a partial update of a purchase order
type UpdateOrderRequest struct {
	SupplierID       *uuid.UUID         `json:"supplier_id"`
	Items            []OrderLineRequest `json:"items" binding:"omitempty,dive"`
	Priority         *string            `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ExpectedDelivery *time.Time         `json:"expected_delivery"`
	Notes            *string            `json:"notes" binding:"omitempty,max=2000"`
}

// TransitionRequest carries the reason recorded in the status history
type TransitionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SendEmailRequest represents a request to email an order to its supplier
type SendEmailRequest struct {
	Subject string `json:"subject" binding:"max=200"`
	Content string `json:"content" binding:"max=10000"`
	Message string `json:"message" binding:"max=2000"`
}

// ReceiptLineRequest carries operator overrides for one order line.
// Omitted fields keep their defaults.
type ReceiptLineRequest struct {
	LineIndex        int              `json:"line_index" binding:"min=0"`
	Included         *bool            `json:"included"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity"`
	BatchNumber      *string          `json:"batch_number" binding:"omitempty,max=100"`
	ExpirationDate   *time.Time       `json:"expiration_date"`
}

// ReceiveRequest holds the operator's adjustments for a delivery
type ReceiveRequest struct {
	Lines []ReceiptLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ReceiptLineResponse is one reconciled line
type ReceiptLineResponse struct {
	LineIndex        int             `json:"line_index"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	Badge            string          `json:"badge,omitempty"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineCost         decimal.Decimal `json:"line_cost"`
	BatchNumber      string          `json:"batch_number"`
	ExpirationDate   *time.Time      `json:"expiration_date,omitempty"`
	Included         bool            `json:"included"`
}

// ReceiptResponse is the reconciliation of a delivery against its order
type ReceiptResponse struct {
	OrderID       uuid.UUID             `json:"order_id"`
	OrderNumber   string                `json:"order_number"`
	SupplierName  string                `json:"supplier_name"`
	Status        string                `json:"status"`
	Lines         []ReceiptLineResponse `json:"lines"`
	OrderedTotal  decimal.Decimal       `json:"ordered_total"`
	VerifiedTotal decimal.Decimal       `json:"verified_total"`
	Accurate      bool                  `json:"accurate"`
}

// ReceiveResult is the outcome of a confirmed delivery. It doubles as the
// data of the printable reconciliation document.
type ReceiveResult struct {
	Order        PurchaseOrderResponse              `json:"order"`
	Receipt      ReceiptResponse                    `json:"receipt"`
	Transactions []inventoryapp.TransactionResponse `json:"transactions"`
	ReceivedAt   time.Time                          `json:"received_at"`
	ReceivedBy   string                             `json:"received_by"`
}

// ToPurchaseOrderResponse converts a domain order to a response DTO
func ToPurchaseOrderResponse(o *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderLineResponse, len(o.Items))
	for i, l := range o.Items {
		items[i] = OrderLineResponse{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Unit:     l.Unit,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Amount:   l.Amount(),
		}
	}
	history := make([]StatusChangeResponse, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		history[i] = StatusChangeResponse{
			Status:    string(h.Status),
			Reason:    h.Reason,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}
	return PurchaseOrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		SupplierID:        o.SupplierID,
		SupplierName:      o.SupplierName,
		Items:             items,
		TotalAmount:       o.TotalAmount,
		Status:            string(o.Status),
		Priority:          string(o.Priority),
		ExpectedDelivery:  o.ExpectedDelivery,
		StatusHistory:     history,
		RequestedBy:       o.RequestedBy,
		ApprovedBy:        o.ApprovedBy,
		ApprovedAt:        o.ApprovedAt,
		ReceivedAt:        o.ReceivedAt,
		ActualTotalAmount: o.ActualTotalAmount,
		Notes:             o.Notes,
		CanModify:         o.CanModify(),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of domain orders
func ToPurchaseOrderResponses(orders []*procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToPurchaseOrderResponse(o)
	}
	return responses
}

// ToReceiptResponse converts a domain receipt
func ToReceiptResponse(order *procurement.PurchaseOrder, r *procurement.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReceiptLineResponse{
			LineIndex:        l.LineIndex,
			ItemID:           l.ItemID,
			ItemName:         l.ItemName,
			Unit:             l.Unit,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			Discrepancy:      l.Discrepancy(),
			Badge:            string(l.Badge()),
			UnitCost:         l.UnitCost,
			LineCost:         l.LineCost(),
			BatchNumber:      l.BatchNumber,
			ExpirationDate:   l.ExpirationDate,
			Included:         l.Included,
		}
	}
	return ReceiptResponse{
		OrderID:       r.OrderID,
		OrderNumber:   r.OrderNumber,
		SupplierName:  r.SupplierName,
		Status:        string(order.Status),
		Lines:         lines,
		OrderedTotal:  order.TotalAmount,
		VerifiedTotal: r.VerifiedTotal,
		Accurate:      r.IsAccurate(),
	}
}

func toReceiptInputs(lines []ReceiptLineRequest) []procurement.ReceiptLineInput {
	inputs := make([]procurement.ReceiptLineInput, len(lines))
	for i, l := range lines {
		inputs[i] = procurement.ReceiptLineInput{
			LineIndex:        l.LineIndex,
			Included:         l.Included,
			ReceivedQuantity: l.ReceivedQuantity,
			BatchNumber:      l.BatchNumber,
			ExpirationDate:   l.ExpirationDate,
		}
	}
	return inputs
}
