package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscrepancyBadge classifies a line's received-vs-ordered difference
type DiscrepancyBadge string

const (
	BadgeNone     DiscrepancyBadge = ""
	BadgeShortage DiscrepancyBadge = "shortage"
	BadgeOverage  DiscrepancyBadge = "overage"
)

// ReceiptLine is one order line as checked in by the operator
type ReceiptLine struct {
	LineIndex        int
	ItemID           uuid.UUID
	ItemName         string
	Unit             string
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	BatchNumber      string
	ExpirationDate   *time.Time
	Included         bool
}

// Discrepancy returns received minus ordered, unclamped
func (l ReceiptLine) Discrepancy() decimal.Decimal {
	return l.ReceivedQuantity.Sub(l.OrderedQuantity)
}

// Badge returns shortage for a negative discrepancy and overage for a positive one
func (l ReceiptLine) Badge() DiscrepancyBadge {
	switch d := l.Discrepancy(); {
	case d.IsNegative():
		return BadgeShortage
	case d.IsPositive():
		return BadgeOverage
	}
	return BadgeNone
}

// Counts reports whether the line adds stock and value
func (l ReceiptLine) Counts() bool {
	return l.Included && l.ReceivedQuantity.IsPositive()
}

// LineCost returns ReceivedQuantity * UnitCost for counted lines, zero otherwise
func (l ReceiptLine) LineCost() decimal.Decimal {
	if !l.Counts() {
		return decimal.Zero
	}
	return l.ReceivedQuantity.Mul(l.UnitCost)
}

// ReceiptLineInput carries operator overrides for one line; nil keeps the default
type ReceiptLineInput struct {
	LineIndex        int
	Included         *bool
	ReceivedQuantity *decimal.Decimal
	BatchNumber      *string
	ExpirationDate   *time.Time
}

// Receipt is the reconciliation of a delivery against its order
type Receipt struct {
	OrderID       uuid.UUID
	OrderNumber   string
	SupplierName  string
	Lines         []ReceiptLine
	VerifiedTotal decimal.Decimal
}

// DefaultBatchNumber returns BAT-{orderNumber}-{lineIndex+1}
func DefaultBatchNumber(orderNumber string, lineIndex int) string {
	return fmt.Sprintf("BAT-%s-%d", orderNumber, lineIndex+1)
}

// PrepareReceipt returns the default receipt: every line included, received as ordered
func PrepareReceipt(order *PurchaseOrder) *Receipt {
	lines := make([]ReceiptLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = ReceiptLine{
			LineIndex:        i,
			ItemID:           item.ItemID,
			ItemName:         item.ItemName,
			Unit:             item.Unit,
			OrderedQuantity:  item.Quantity,
			ReceivedQuantity: item.Quantity,
			UnitCost:         item.UnitCost,
			BatchNumber:      DefaultBatchNumber(order.OrderNumber, i),
			Included:         true,
		}
	}
	r := &Receipt{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierName: order.SupplierName,
		Lines:        lines,
	}
	r.VerifiedTotal = VerifiedTotal(lines)
	return r
}

// BuildReceipt applies operator overrides to the default receipt
func BuildReceipt(order *PurchaseOrder, inputs []ReceiptLineInput) (*Receipt, error) {
	r := PrepareReceipt(order)
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.LineIndex < 0 || in.LineIndex >= len(r.Lines) {
			return nil, shared.InvalidInput(fmt.Sprintf("Line %d does not exist on order %s", in.LineIndex+1, order.OrderNumber))
		}
		if seen[in.LineIndex] {
			return nil, shared.InvalidInput(fmt.Sprintf("Line %d given more than once", in.LineIndex+1))
		}
		seen[in.LineIndex] = true

		line := &r.Lines[in.LineIndex]
		if in.Included != nil {
			line.Included = *in.Included
		}
		if in.ReceivedQuantity != nil {
			if in.ReceivedQuantity.IsNegative() {
				return nil, shared.InvalidInput(fmt.Sprintf("Line %d: received quantity cannot be negative", in.LineIndex+1))
			}
			line.ReceivedQuantity = *in.ReceivedQuantity
		}
		if in.BatchNumber != nil && strings.TrimSpace(*in.BatchNumber) != "" {
			line.BatchNumber = strings.TrimSpace(*in.BatchNumber)
		}
		if in.ExpirationDate != nil {
			exp := *in.ExpirationDate
			line.ExpirationDate = &exp
		}
	}
	r.VerifiedTotal = VerifiedTotal(r.Lines)
	return r, nil
}

// VerifiedTotal sums ReceivedQuantity * UnitCost over included lines with a positive quantity
func VerifiedTotal(lines []ReceiptLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineCost())
	}
	return total
}

// CountedLines returns the lines that add stock
func (r *Receipt) CountedLines() []ReceiptLine {
	counted := make([]ReceiptLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		if l.Counts() {
			counted = append(counted, l)
		}
	}
	return counted
}

// IsAccurate returns true when every line was received in full and exactly as ordered
func (r *Receipt) IsAccurate() bool {
	for _, l := range r.Lines {
		if !l.Included || !l.Discrepancy().IsZero() {
			return false
		}
	}
	return true
}

// Summary describes the adjustment for the status history
func (r *Receipt) Summary() string {
	var adjusted []string
	for _, l := range r.Lines {
		switch {
		case !l.Included:
			adjusted = append(adjusted, l.ItemName+" not received")
		case !l.Discrepancy().IsZero():
			adjusted = append(adjusted, fmt.Sprintf("%s %s %s", l.ItemName, l.Badge(), l.Discrepancy().Abs().String()))
		}
	}
	if len(adjusted) == 0 {
		return "Received in full, verified total " + r.VerifiedTotal.StringFixed(2)
	}
	return fmt.Sprintf("Received with adjustments (%s), verified total %s",
		strings.Join(adjusted, "; "), r.VerifiedTotal.StringFixed(2))
}
