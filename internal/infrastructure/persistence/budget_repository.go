package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/hotel/backend/internal/domain/budget"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentBudgetRepository implements budget.BudgetRepository.
// Budgets are keyed budgets/{YYYY-MM}.
type DocumentBudgetRepository struct {
	st store.Store
}

// NewDocumentBudgetRepository creates a new budget repository
func NewDocumentBudgetRepository(st store.Store) *DocumentBudgetRepository {
	return &DocumentBudgetRepository{st: st}
}

// FindByMonth returns the month's budget
func (r *DocumentBudgetRepository) FindByMonth(ctx context.Context, year, month int) (*budget.Budget, error) {
	doc, err := getDocument[models.BudgetDocument](ctx, r.st, store.Join(store.CollectionBudgets, budget.Key(year, month)))
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return doc.ToDomain(), nil
}

// FindByYear returns the stored budgets of a year ordered by month
func (r *DocumentBudgetRepository) FindByYear(ctx context.Context, year int) ([]*budget.Budget, error) {
	docs, err := listDocuments[models.BudgetDocument](ctx, r.st, store.CollectionBudgets)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	var out []*budget.Budget
	for _, d := range docs {
		if d.Year == year {
			out = append(out, d.ToDomain())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// Save creates or replaces a budget
func (r *DocumentBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	var doc models.BudgetDocument
	doc.FromDomain(b)
	if err := r.st.Set(ctx, store.Join(store.CollectionBudgets, b.Key()), doc); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

var _ budget.BudgetRepository = (*DocumentBudgetRepository)(nil)
