package models

import (
	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/menu"
	"github.com/shopspring/decimal"
)

// IngredientDocument is one required ingredient of a dish
type IngredientDocument struct {
	IngredientID     uuid.UUID       `json:"ingredientId"`
	IngredientName   string          `json:"ingredientName"`
	QuantityRequired decimal.Decimal `json:"quantityRequired"`
	Unit             string          `json:"unit"`
	IsCritical       bool            `json:"isCritical"`
}

// MenuItemDocument is stored at menu/{id}
type MenuItemDocument struct {
	AggregateDocument
	Name                string               `json:"name"`
	Category            string               `json:"category"`
	Description         string               `json:"description,omitempty"`
	Price               decimal.Decimal      `json:"price"`
	IsAvailable         bool                 `json:"isAvailable"`
	RequiredIngredients []IngredientDocument `json:"requiredIngredients"`
}

// FromDomain populates the document from a domain menu item
func (d *MenuItemDocument) FromDomain(m *menu.MenuItem) {
	d.FromDomainAggregateRoot(m.BaseAggregateRoot)
	d.Name = m.Name
	d.Category = m.Category
	d.Description = m.Description
	d.Price = m.Price
	d.IsAvailable = m.IsAvailable
	d.RequiredIngredients = make([]IngredientDocument, len(m.RequiredIngredients))
	for i, ing := range m.RequiredIngredients {
		d.RequiredIngredients[i] = IngredientDocument(ing)
	}
}

// ToDomain converts the document to a domain menu item
func (d *MenuItemDocument) ToDomain() *menu.MenuItem {
	m := &menu.MenuItem{
		BaseAggregateRoot:   d.ToDomainAggregateRoot(),
		Name:                d.Name,
		Category:            d.Category,
		Description:         d.Description,
		Price:               d.Price,
		IsAvailable:         d.IsAvailable,
		RequiredIngredients: make([]menu.Ingredient, len(d.RequiredIngredients)),
	}
	for i, ing := range d.RequiredIngredients {
		m.RequiredIngredients[i] = menu.Ingredient(ing)
	}
	return m
}
