package procurement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
)

// SupplierContact is the supplier part of an order email
type SupplierContact struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
}

// OrderEmail is one order email to a supplier
type OrderEmail struct {
	Order    PurchaseOrderResponse
	Supplier SupplierContact
	Subject  string
	Content  string
	Message  string
}

// OrderMailer delivers order emails through the outbound mail endpoint.
// An error carries the endpoint's own message.
type OrderMailer interface {
	SendOrderEmail(ctx context.Context, email OrderEmail) error
}

func toSupplierContact(s *partner.Supplier) SupplierContact {
	return SupplierContact{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
	}
}

func defaultEmailSubject(o *procurement.PurchaseOrder) string {
	return "Purchase Order " + o.OrderNumber
}

func defaultEmailContent(o *procurement.PurchaseOrder, s *partner.Supplier) string {
	var b strings.Builder
	greeting := s.ContactPerson
	if greeting == "" {
		greeting = s.Name
	}
	fmt.Fprintf(&b, "Dear %s,\n\nPlease supply the following items for order %s:\n\n", greeting, o.OrderNumber)
	for _, l := range o.Items {
		fmt.Fprintf(&b, "- %s: %s %s at %s\n", l.ItemName, l.Quantity.String(), l.Unit, l.UnitCost.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nOrder total: %s\n", o.TotalAmount.StringFixed(2))
	if o.ExpectedDelivery != nil {
		fmt.Fprintf(&b, "Expected delivery: %s\n", o.ExpectedDelivery.Format("2006-01-02"))
	}
	return b.String()
}
