package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/hotel/backend/internal/domain/budget"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BudgetService handles monthly spending allowances
type BudgetService struct {
	budgetRepo     budget.BudgetRepository
	orderRepo      procurement.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo budget.BudgetRepository, orderRepo procurement.OrderRepository, logger *zap.Logger) *BudgetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BudgetService{
		budgetRepo:     budgetRepo,
		orderRepo:      orderRepo,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *BudgetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByMonth returns the month's budget, or a zero placeholder when none is
// stored. The placeholder is not written.
func (s *BudgetService) GetByMonth(ctx context.Context, year, month int) (*BudgetResponse, error) {
	b, err := s.find(ctx, year, month)
	if err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// GetByYear returns the stored budgets of a year ordered by month
func (s *BudgetService) GetByYear(ctx context.Context, year int) ([]BudgetResponse, error) {
	if err := budget.ValidatePeriod(year, 1); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.FindByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return ToBudgetResponses(budgets), nil
}

// SetBudget sets the month's allowance; spend is left as derived
func (s *BudgetService) SetBudget(ctx context.Context, actor shared.Actor, year, month int, req SetBudgetRequest) (*BudgetResponse, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, shared.InvalidInput("Budget amount cannot be negative")
	}
	b, err := s.find(ctx, year, month)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := b.SetAmount(req.Amount, req.Notes, now); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save budget: %w", err)
	}
	_ = s.eventPublisher.Publish(ctx, budget.NewBudgetSetEvent(b, actor, now))

	resp := ToBudgetResponse(b)
	return &resp, nil
}

// RecalculateSpent re-derives the month's spend from orders delivered in it
func (s *BudgetService) RecalculateSpent(ctx context.Context, actor shared.Actor, year, month int) (*BudgetResponse, error) {
	b, err := s.find(ctx, year, month)
	if err != nil {
		return nil, err
	}
	from, to := budget.MonthRange(year, month)
	orders, err := s.orderRepo.FindDeliveredBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list delivered orders: %w", err)
	}

	now := s.now()
	if err := b.SetSpent(budget.SumSpent(orders), now); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save budget: %w", err)
	}
	_ = s.eventPublisher.Publish(ctx, budget.NewBudgetRecalculatedEvent(b, actor, now))

	if b.IsOverBudget() {
		s.logger.Warn("Monthly budget exceeded",
			zap.String("month", b.Key()),
			zap.String("amount", b.Amount.StringFixed(2)),
			zap.String("spent", b.Spent.StringFixed(2)))
	}

	resp := ToBudgetResponse(b)
	return &resp, nil
}

func (s *BudgetService) find(ctx context.Context, year, month int) (*budget.Budget, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	b, err := s.budgetRepo.FindByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if b == nil {
		return budget.Placeholder(year, month), nil
	}
	return b, nil
}
