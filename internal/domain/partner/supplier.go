package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Performance holds delivery metrics accumulated from received orders
type Performance struct {
	TotalOrders        int
	OnTimeDeliveries   int
	AccurateDeliveries int
	LastDeliveryAt     *time.Time
}

// OnTimeRate returns the on-time percentage rounded to one decimal place
func (p Performance) OnTimeRate() decimal.Decimal {
	return rate(p.OnTimeDeliveries, p.TotalOrders)
}

// AccuracyRate returns the accurate-delivery percentage rounded to one decimal place
func (p Performance) AccuracyRate() decimal.Decimal {
	return rate(p.AccurateDeliveries, p.TotalOrders)
}

func rate(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total))).Round(1)
}

// Supplier is the aggregate root for a vendor the hotel buys from
type Supplier struct {
	shared.BaseAggregateRoot
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Categories    []string
	IsApproved    bool
	Notes         string
	Performance   Performance
}

// SupplierSpec holds the fields for creating a supplier
type SupplierSpec struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Categories    []string
	Notes         string
}

// SupplierPatch holds optional updates; nil fields are left untouched
type SupplierPatch struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Categories    []string
	Notes         *string
}

// NewSupplier creates an unapproved supplier
func NewSupplier(spec SupplierSpec, actor shared.Actor, now time.Time) (*Supplier, error) {
	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              strings.TrimSpace(spec.Name),
		ContactPerson:     strings.TrimSpace(spec.ContactPerson),
		Email:             strings.TrimSpace(spec.Email),
		Phone:             strings.TrimSpace(spec.Phone),
		Address:           spec.Address,
		Categories:        normalizeCategories(spec.Categories),
		Notes:             spec.Notes,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.AddDomainEvent(NewSupplierCreatedEvent(s, actor, now))
	return s, nil
}

func (s *Supplier) validate() error {
	if s.Name == "" {
		return shared.InvalidInput("Supplier name cannot be empty")
	}
	if len(s.Name) > 200 {
		return shared.InvalidInput("Supplier name cannot exceed 200 characters")
	}
	if len(s.ContactPerson) > 100 {
		return shared.InvalidInput("Contact name cannot exceed 100 characters")
	}
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return shared.InvalidInput("Invalid supplier email: " + s.Email)
		}
	}
	return nil
}

func normalizeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	return out
}

// Update applies a patch
func (s *Supplier) Update(patch SupplierPatch, actor shared.Actor, now time.Time) error {
	next := *s
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.ContactPerson != nil {
		next.ContactPerson = strings.TrimSpace(*patch.ContactPerson)
	}
	if patch.Email != nil {
		next.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		next.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		next.Address = *patch.Address
	}
	if patch.Categories != nil {
		next.Categories = normalizeCategories(patch.Categories)
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if err := next.validate(); err != nil {
		return err
	}

	*s = next
	s.MarkChanged(now)
	s.AddDomainEvent(NewSupplierUpdatedEvent(s, actor, now))
	return nil
}

// Approve marks the supplier as approved for ordering
func (s *Supplier) Approve(actor shared.Actor, now time.Time) error {
	if s.IsApproved {
		return shared.NewDomainError("INVALID_STATE", "Supplier "+s.Name+" is already approved")
	}
	s.IsApproved = true
	s.MarkChanged(now)
	s.AddDomainEvent(NewSupplierApprovedEvent(s, actor, now))
	return nil
}

// RecordDelivery folds one received order into the performance metrics
func (s *Supplier) RecordDelivery(onTime, accurate bool, receivedAt time.Time) {
	s.Performance.TotalOrders++
	if onTime {
		s.Performance.OnTimeDeliveries++
	}
	if accurate {
		s.Performance.AccurateDeliveries++
	}
	at := receivedAt
	s.Performance.LastDeliveryAt = &at
	s.MarkChanged(receivedAt)
}

// Supplies reports whether the supplier offers the given category
func (s *Supplier) Supplies(category string) bool {
	for _, c := range s.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// LinkedItemRef is the minimum an inventory item exposes for supplier linking
type LinkedItemRef struct {
	SupplierID   *uuid.UUID
	SupplierName string
}

// IsLinked returns true when the item references this supplier by id or by
// case-insensitive name.
func (s *Supplier) IsLinked(ref LinkedItemRef) bool {
	if ref.SupplierID != nil && *ref.SupplierID == s.ID {
		return true
	}
	return ref.SupplierName != "" && strings.EqualFold(strings.TrimSpace(ref.SupplierName), s.Name)
}

// MarkDeleted records the deletion event before the supplier is removed
func (s *Supplier) MarkDeleted(actor shared.Actor, now time.Time) {
	s.AddDomainEvent(NewSupplierDeletedEvent(s, actor, now))
}
