package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/menu"
	"github.com/shopspring/decimal"
)

// MenuItemResponse represents a dish in API responses
type MenuItemResponse struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Category            string               `json:"category"`
	Description         string               `json:"description"`
	Price               decimal.Decimal      `json:"price"`
	IsAvailable         bool                 `json:"is_available"`
	RequiredIngredients []IngredientResponse `json:"required_ingredients"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	Version             int                  `json:"version"`
}

// IngredientResponse represents one required ingredient
type IngredientResponse struct {
	IngredientID     uuid.UUID       `json:"ingredient_id"`
	IngredientName   string          `json:"ingredient_name"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	Unit             string          `json:"unit"`
	IsCritical       bool            `json:"is_critical"`
}

// IngredientRequest names an inventory item a dish needs
type IngredientRequest struct {
	IngredientID     uuid.UUID       `json:"ingredient_id" binding:"required"`
	IngredientName   string          `json:"ingredient_name"`
	QuantityRequired decimal.Decimal `json:"quantity_required" binding:"gt=0"`
	Unit             string          `json:"unit"`
	IsCritical       bool            `json:"is_critical"`
}

// CreateMenuItemRequest represents a request to create a dish
type CreateMenuItemRequest struct {
	Name                string              `json:"name" binding:"required,max=200"`
	Category            string              `json:"category" binding:"max=100"`
	Description         string              `json:"description"`
	Price               decimal.Decimal     `json:"price"`
	RequiredIngredients []IngredientRequest `json:"required_ingredients" binding:"dive"`
}

// UpdateMenuItemRequest represents a partial update of a dish
type UpdateMenuItemRequest struct {
	Name                *string             `json:"name" binding:"omitempty,max=200"`
	Category            *string             `json:"category" binding:"omitempty,max=100"`
	Description         *string             `json:"description"`
	Price               *decimal.Decimal    `json:"price"`
	RequiredIngredients []IngredientRequest `json:"required_ingredients" binding:"omitempty,dive"`
}

// ShortageResponse describes an ingredient below one serving
type ShortageResponse struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Required       decimal.Decimal `json:"required"`
	InStock        decimal.Decimal `json:"in_stock"`
	Unit           string          `json:"unit"`
	IsCritical     bool            `json:"is_critical"`
}

// AvailabilityResponse is the outcome of checking one dish
type AvailabilityResponse struct {
	MenuItemID uuid.UUID          `json:"menu_item_id"`
	Name       string             `json:"name"`
	Available  bool               `json:"available"`
	Changed    bool               `json:"changed"`
	Shortages  []ShortageResponse `json:"shortages"`
}

// RefreshResult summarizes an availability refresh
type RefreshResult struct {
	Checked int                    `json:"checked"`
	Changed int                    `json:"changed"`
	Items   []AvailabilityResponse `json:"items"`
}

// ToMenuItemResponse converts a domain menu item to a response DTO
func ToMenuItemResponse(m *menu.MenuItem) MenuItemResponse {
	ingredients := make([]IngredientResponse, len(m.RequiredIngredients))
	for i, ing := range m.RequiredIngredients {
		ingredients[i] = IngredientResponse{
			IngredientID:     ing.IngredientID,
			IngredientName:   ing.IngredientName,
			QuantityRequired: ing.QuantityRequired,
			Unit:             ing.Unit,
			IsCritical:       ing.IsCritical,
		}
	}
	return MenuItemResponse{
		ID:                  m.ID,
		Name:                m.Name,
		Category:            m.Category,
		Description:         m.Description,
		Price:               m.Price,
		IsAvailable:         m.IsAvailable,
		RequiredIngredients: ingredients,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		Version:             m.Version,
	}
}

// ToMenuItemResponses converts a slice of domain menu items
func ToMenuItemResponses(items []*menu.MenuItem) []MenuItemResponse {
	responses := make([]MenuItemResponse, len(items))
	for i, m := range items {
		responses[i] = ToMenuItemResponse(m)
	}
	return responses
}

func toAvailabilityResponse(m *menu.MenuItem, a menu.Availability, changed bool) AvailabilityResponse {
	shortages := make([]ShortageResponse, len(a.Shortages))
	for i, s := range a.Shortages {
		shortages[i] = ShortageResponse{
			IngredientID:   s.IngredientID,
			IngredientName: s.IngredientName,
			Required:       s.Required,
			InStock:        s.InStock,
			Unit:           s.Unit,
			IsCritical:     s.IsCritical,
		}
	}
	return AvailabilityResponse{
		MenuItemID: m.ID,
		Name:       m.Name,
		Available:  a.Available,
		Changed:    changed,
		Shortages:  shortages,
	}
}
