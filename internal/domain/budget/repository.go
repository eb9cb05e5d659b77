package budget

import "context"

// BudgetRepository defines the interface for monthly budget persistence
type BudgetRepository interface {
	// FindByMonth returns the month's budget; nil, nil when absent
	FindByMonth(ctx context.Context, year, month int) (*Budget, error)

	// FindByYear returns the stored budgets of a year ordered by month
	FindByYear(ctx context.Context, year int) ([]*Budget, error)

	// Save creates or replaces a budget
	Save(ctx context.Context, b *Budget) error
}
