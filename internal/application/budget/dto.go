package budget

import (
	"time"

	"github.com/hotel/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetResponse represents a monthly budget with its derived figures
type BudgetResponse struct {
	Key            string          `json:"key"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Amount         decimal.Decimal `json:"amount"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Deficit        decimal.Decimal `json:"deficit"`
	PercentageUsed int64           `json:"percentage_used"`
	IsOverBudget   bool            `json:"is_over_budget"`
	Notes          string          `json:"notes"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// SetBudgetRequest represents a request to set a month's allowance
type SetBudgetRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gte=0"`
	Notes  string          `json:"notes" binding:"max=1000"`
}

// ToBudgetResponse converts a domain budget to a response DTO
func ToBudgetResponse(b *budget.Budget) BudgetResponse {
	resp := BudgetResponse{
		Key:            b.Key(),
		Year:           b.Year,
		Month:          b.Month,
		Amount:         b.Amount,
		Spent:          b.Spent,
		Remaining:      b.Remaining(),
		Deficit:        b.Deficit(),
		PercentageUsed: b.PercentageUsed(),
		IsOverBudget:   b.IsOverBudget(),
		Notes:          b.Notes,
	}
	if !b.UpdatedAt.IsZero() {
		at := b.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

// ToBudgetResponses converts a slice of domain budgets
func ToBudgetResponses(budgets []*budget.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = ToBudgetResponse(b)
	}
	return responses
}
