package models

import (
	"time"

	"github.com/hotel/backend/internal/domain/partner"
)

// PerformanceDocument holds a supplier's delivery counters
type PerformanceDocument struct {
	TotalOrders        int        `json:"totalOrders"`
	OnTimeDeliveries   int        `json:"onTimeDeliveries"`
	AccurateDeliveries int        `json:"accurateDeliveries"`
	LastDeliveryAt     *time.Time `json:"lastDeliveryAt,omitempty"`
}

// SupplierDocument is stored at suppliers/{id}
type SupplierDocument struct {
	AggregateDocument
	Name          string              `json:"name"`
	ContactPerson string              `json:"contactPerson"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Categories    []string            `json:"categories"`
	IsApproved    bool                `json:"isApproved"`
	Notes         string              `json:"notes,omitempty"`
	Performance   PerformanceDocument `json:"performanceMetrics"`
}

// FromDomain populates the document from a domain supplier
func (d *SupplierDocument) FromDomain(s *partner.Supplier) {
	d.FromDomainAggregateRoot(s.BaseAggregateRoot)
	d.Name = s.Name
	d.ContactPerson = s.ContactPerson
	d.Email = s.Email
	d.Phone = s.Phone
	d.Address = s.Address
	d.Categories = append([]string{}, s.Categories...)
	d.IsApproved = s.IsApproved
	d.Notes = s.Notes
	d.Performance = PerformanceDocument{
		TotalOrders:        s.Performance.TotalOrders,
		OnTimeDeliveries:   s.Performance.OnTimeDeliveries,
		AccurateDeliveries: s.Performance.AccurateDeliveries,
		LastDeliveryAt:     s.Performance.LastDeliveryAt,
	}
}

// ToDomain converts the document to a domain supplier
func (d *SupplierDocument) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot: d.ToDomainAggregateRoot(),
		Name:              d.Name,
		ContactPerson:     d.ContactPerson,
		Email:             d.Email,
		Phone:             d.Phone,
		Address:           d.Address,
		Categories:        append([]string{}, d.Categories...),
		IsApproved:        d.IsApproved,
		Notes:             d.Notes,
		Performance: partner.Performance{
			TotalOrders:        d.Performance.TotalOrders,
			OnTimeDeliveries:   d.Performance.OnTimeDeliveries,
			AccurateDeliveries: d.Performance.AccurateDeliveries,
			LastDeliveryAt:     d.Performance.LastDeliveryAt,
		},
	}
}
