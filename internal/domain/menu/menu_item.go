package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ingredient is an inventory item a dish needs
type Ingredient struct {
	IngredientID     uuid.UUID
	IngredientName   string
	QuantityRequired decimal.Decimal
	Unit             string
	IsCritical       bool
}

// MenuItem is a dish whose availability follows the stock of its ingredients
type MenuItem struct {
	shared.BaseAggregateRoot
	Name                string
	Category            string
	Description         string
	Price               decimal.Decimal
	IsAvailable         bool
	RequiredIngredients []Ingredient
}

// MenuItemSpec holds the fields for creating a menu item
type MenuItemSpec struct {
	Name                string
	Category            string
	Description         string
	Price               decimal.Decimal
	RequiredIngredients []Ingredient
}

// MenuItemPatch holds optional updates; nil fields are left untouched
type MenuItemPatch struct {
	Name                *string
	Category            *string
	Description         *string
	Price               *decimal.Decimal
	RequiredIngredients []Ingredient
}

// NewMenuItem creates a menu item. Availability starts false until evaluated against stock.
func NewMenuItem(spec MenuItemSpec, actor shared.Actor, now time.Time) (*MenuItem, error) {
	m := &MenuItem{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(now),
		Name:                strings.TrimSpace(spec.Name),
		Category:            strings.TrimSpace(spec.Category),
		Description:         spec.Description,
		Price:               spec.Price,
		RequiredIngredients: append([]Ingredient(nil), spec.RequiredIngredients...),
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.AddDomainEvent(NewMenuItemCreatedEvent(m, actor, now))
	return m, nil
}

func (m *MenuItem) validate() error {
	if m.Name == "" {
		return shared.InvalidInput("Menu item name cannot be empty")
	}
	if m.Price.IsNegative() {
		return shared.InvalidInput("Menu item price cannot be negative")
	}
	seen := make(map[uuid.UUID]bool, len(m.RequiredIngredients))
	for i, ing := range m.RequiredIngredients {
		if ing.IngredientID == uuid.Nil {
			return shared.InvalidInput(fmt.Sprintf("Ingredient %d: ingredient ID cannot be empty", i+1))
		}
		if seen[ing.IngredientID] {
			return shared.InvalidInput(fmt.Sprintf("Ingredient %s listed more than once", ing.IngredientName))
		}
		seen[ing.IngredientID] = true
		if !ing.QuantityRequired.IsPositive() {
			return shared.InvalidInput(fmt.Sprintf("Ingredient %d: required quantity must be positive", i+1))
		}
	}
	return nil
}

// Update applies a patch
func (m *MenuItem) Update(patch MenuItemPatch, actor shared.Actor, now time.Time) error {
	next := *m
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.RequiredIngredients != nil {
		next.RequiredIngredients = append([]Ingredient(nil), patch.RequiredIngredients...)
	}
	if err := next.validate(); err != nil {
		return err
	}

	*m = next
	m.MarkChanged(now)
	m.AddDomainEvent(NewMenuItemUpdatedEvent(m, actor, now))
	return nil
}

// Shortage describes an ingredient below what one serving needs
type Shortage struct {
	IngredientID   uuid.UUID
	IngredientName string
	Required       decimal.Decimal
	InStock        decimal.Decimal
	Unit           string
	IsCritical     bool
}

// Availability is the result of checking a dish against stock
type Availability struct {
	Available bool
	Shortages []Shortage
}

// StockLevels maps inventory item IDs to their current stock
type StockLevels map[uuid.UUID]decimal.Decimal

// CheckAvailability evaluates the dish against stock. The dish is available
// iff every critical ingredient has at least its required quantity; short
// non-critical ingredients are reported but do not block. Missing
// ingredients count as zero stock.
func (m *MenuItem) CheckAvailability(stock StockLevels) Availability {
	result := Availability{Available: true}
	for _, ing := range m.RequiredIngredients {
		have := stock[ing.IngredientID]
		if have.GreaterThanOrEqual(ing.QuantityRequired) {
			continue
		}
		result.Shortages = append(result.Shortages, Shortage{
			IngredientID:   ing.IngredientID,
			IngredientName: ing.IngredientName,
			Required:       ing.QuantityRequired,
			InStock:        have,
			Unit:           ing.Unit,
			IsCritical:     ing.IsCritical,
		})
		if ing.IsCritical {
			result.Available = false
		}
	}
	return result
}

// ApplyAvailability stores the availability flag; it reports whether it changed
func (m *MenuItem) ApplyAvailability(a Availability, actor shared.Actor, now time.Time) bool {
	if m.IsAvailable == a.Available {
		return false
	}
	m.IsAvailable = a.Available
	m.MarkChanged(now)
	m.AddDomainEvent(NewMenuAvailabilityChangedEvent(m, a, actor, now))
	return true
}

// UsesIngredient reports whether the dish requires the given inventory item
func (m *MenuItem) UsesIngredient(itemID uuid.UUID) bool {
	for _, ing := range m.RequiredIngredients {
		if ing.IngredientID == itemID {
			return true
		}
	}
	return false
}

// MarkDeleted records the deletion event before the item is removed
func (m *MenuItem) MarkDeleted(actor shared.Actor, now time.Time) {
	m.AddDomainEvent(NewMenuItemDeletedEvent(m, actor, now))
}
