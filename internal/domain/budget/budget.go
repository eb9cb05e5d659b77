package budget

import (
	"fmt"
	"time"

	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Key returns the "YYYY-MM" document key for a month
func Key(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseKey splits a "YYYY-MM" key
func ParseKey(key string) (year, month int, err error) {
	if _, err = fmt.Sscanf(key, "%4d-%2d", &year, &month); err != nil {
		return 0, 0, shared.InvalidInput("Invalid budget key: " + key)
	}
	if err = ValidatePeriod(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// ValidatePeriod checks year and month ranges
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return shared.InvalidInput(fmt.Sprintf("Month must be between 1 and 12, got %d", month))
	}
	if year < 2000 || year > 9999 {
		return shared.InvalidInput(fmt.Sprintf("Year %d is out of range", year))
	}
	return nil
}

// MonthRange returns [first instant of the month, first instant of the next month) in UTC
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Budget is the spending allowance for one calendar month
type Budget struct {
	Year      int
	Month     int
	Amount    decimal.Decimal
	Spent     decimal.Decimal
	Notes     string
	UpdatedAt time.Time
}

// Placeholder returns the zero budget reported for a month that has none
func Placeholder(year, month int) *Budget {
	return &Budget{Year: year, Month: month, Amount: decimal.Zero, Spent: decimal.Zero}
}

// Key returns the budget's document key
func (b *Budget) Key() string {
	return Key(b.Year, b.Month)
}

// SetAmount sets the allowance and notes
func (b *Budget) SetAmount(amount decimal.Decimal, notes string, now time.Time) error {
	if amount.IsNegative() {
		return shared.InvalidInput("Budget amount cannot be negative")
	}
	b.Amount = amount
	b.Notes = notes
	b.UpdatedAt = now
	return nil
}

// SetSpent replaces the derived spend
func (b *Budget) SetSpent(spent decimal.Decimal, now time.Time) error {
	if spent.IsNegative() {
		return shared.InvalidInput("Budget spend cannot be negative")
	}
	b.Spent = spent
	b.UpdatedAt = now
	return nil
}

// Remaining returns max(0, amount - spent)
func (b *Budget) Remaining() decimal.Decimal {
	r := b.Amount.Sub(b.Spent)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Deficit returns max(0, spent - amount), the overrun Remaining hides
func (b *Budget) Deficit() decimal.Decimal {
	d := b.Spent.Sub(b.Amount)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// IsOverBudget reports whether spend exceeds the allowance
func (b *Budget) IsOverBudget() bool {
	return b.Spent.GreaterThan(b.Amount)
}

// PercentageUsed returns round(spent / amount * 100), or 0 when amount is 0
func (b *Budget) PercentageUsed() int64 {
	if b.Amount.IsZero() {
		return 0
	}
	return b.Spent.Div(b.Amount).Mul(hundred).Round(0).IntPart()
}

// SpentOrder is the part of a delivered order that counts against a budget
type SpentOrder interface {
	SpentAmount() decimal.Decimal
}

// SumSpent totals the spend of delivered orders
func SumSpent[T SpentOrder](orders []T) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.SpentAmount())
	}
	return total
}
