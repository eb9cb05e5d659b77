package models

import (
	"time"

	"github.com/hotel/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetDocument is stored at budgets/{YYYY-MM}
type BudgetDocument struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Notes     string          `json:"notes"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FromDomain populates the document from a domain budget
func (d *BudgetDocument) FromDomain(b *budget.Budget) {
	d.Year = b.Year
	d.Month = b.Month
	d.Amount = b.Amount
	d.Spent = b.Spent
	d.Notes = b.Notes
	d.UpdatedAt = b.UpdatedAt
}

// ToDomain converts the document to a domain budget
func (d *BudgetDocument) ToDomain() *budget.Budget {
	return &budget.Budget{
		Year:      d.Year,
		Month:     d.Month,
		Amount:    d.Amount,
		Spent:     d.Spent,
		Notes:     d.Notes,
		UpdatedAt: d.UpdatedAt,
	}
}
