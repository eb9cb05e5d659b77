package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBudget = "budget"

// Event type constants
const (
	EventTypeBudgetSet          = "BudgetSet"
	EventTypeBudgetRecalculated = "BudgetRecalculated"
)

// budgetNamespace derives stable aggregate IDs from budget keys
var budgetNamespace = uuid.MustParse("6f1c1f52-8d0e-4a4f-9c3a-0b7f4a6f0e11")

// AggregateID returns the stable ID used for a month's budget in events and logs
func AggregateID(key string) uuid.UUID {
	return uuid.NewSHA1(budgetNamespace, []byte(key))
}

// BudgetSetEvent is raised when a month's allowance is set
type BudgetSetEvent struct {
	shared.BaseDomainEvent
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// NewBudgetSetEvent creates a BudgetSet event
func NewBudgetSetEvent(b *Budget, actor shared.Actor, now time.Time) *BudgetSetEvent {
	return &BudgetSetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetSet, AggregateTypeBudget, AggregateID(b.Key()), actor, now),
		Key:             b.Key(),
		Amount:          b.Amount,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *BudgetSetEvent) ActivityAction() string { return shared.ActionUpdate }

// Describe implements shared.DescribedEvent
func (e *BudgetSetEvent) Describe() string {
	return fmt.Sprintf("Set budget for %s to %s", e.Key, e.Amount.StringFixed(2))
}

// BudgetRecalculatedEvent is raised when spend is re-derived from deliveries.
// It is not audited.
type BudgetRecalculatedEvent struct {
	shared.BaseDomainEvent
	Key   string          `json:"key"`
	Spent decimal.Decimal `json:"spent"`
	Over  bool            `json:"over"`
}

// NewBudgetRecalculatedEvent creates a BudgetRecalculated event
func NewBudgetRecalculatedEvent(b *Budget, actor shared.Actor, now time.Time) *BudgetRecalculatedEvent {
	return &BudgetRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetRecalculated, AggregateTypeBudget, AggregateID(b.Key()), actor, now),
		Key:             b.Key(),
		Spent:           b.Spent,
		Over:            b.IsOverBudget(),
	}
}
