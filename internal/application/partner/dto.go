package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	ContactPerson string              `json:"contact_person"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Categories    []string            `json:"categories"`
	IsApproved    bool                `json:"is_approved"`
	Notes         string              `json:"notes"`
	Performance   PerformanceResponse `json:"performance"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// PerformanceResponse represents a supplier's delivery record
type PerformanceResponse struct {
	TotalOrders        int             `json:"total_orders"`
	OnTimeDeliveries   int             `json:"on_time_deliveries"`
	AccurateDeliveries int             `json:"accurate_deliveries"`
	OnTimeRate         decimal.Decimal `json:"on_time_rate"`
	AccuracyRate       decimal.Decimal `json:"accuracy_rate"`
	LastDeliveryAt     *time.Time      `json:"last_delivery_at,omitempty"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name          string   `json:"name" binding:"required,max=200"`
	ContactPerson string   `json:"contact_person" binding:"max=100"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Phone         string   `json:"phone" binding:"max=50"`
	Address       string   `json:"address" binding:"max=500"`
	Categories    []string `json:"categories"`
	Notes         string   `json:"notes"`
}

// UpdateSupplierRequest represents a partial update of a supplier
type UpdateSupplierRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=200"`
	ContactPerson *string  `json:"contact_person" binding:"omitempty,max=100"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Phone         *string  `json:"phone" binding:"omitempty,max=50"`
	Address       *string  `json:"address" binding:"omitempty,max=500"`
	Categories    []string `json:"categories"`
	Notes         *string  `json:"notes"`
}

func (r UpdateSupplierRequest) toPatch() partner.SupplierPatch {
	return partner.SupplierPatch{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		Categories:    r.Categories,
		Notes:         r.Notes,
	}
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Categories:    categories,
		IsApproved:    s.IsApproved,
		Notes:         s.Notes,
		Performance: PerformanceResponse{
			TotalOrders:        s.Performance.TotalOrders,
			OnTimeDeliveries:   s.Performance.OnTimeDeliveries,
			AccurateDeliveries: s.Performance.AccurateDeliveries,
			OnTimeRate:         s.Performance.OnTimeRate(),
			AccuracyRate:       s.Performance.AccuracyRate(),
			LastDeliveryAt:     s.Performance.LastDeliveryAt,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []*partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i, s := range suppliers {
		responses[i] = ToSupplierResponse(s)
	}
	return responses
}
