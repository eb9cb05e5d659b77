package printing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	defaultLocale   = "en-US"
	defaultCurrency = "USD"
)

// Formatter renders money, quantities and dates for one locale
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter parses a BCP 47 locale and an ISO 4217 currency code.
// Empty values fall back to en-US and USD.
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	if locale == "" {
		locale = defaultLocale
	}
	if currencyCode == "" {
		currencyCode = defaultCurrency
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid printing locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid printing currency %q: %w", currencyCode, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Money formats an amount with the currency symbol, rounded to cents
func (f *Formatter) Money(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

// Quantity formats a quantity with grouping and up to three decimals
func (f *Formatter) Quantity(d decimal.Decimal) string {
	v, _ := d.Float64()
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Signed formats a discrepancy with an explicit sign for non-zero values
func (f *Formatter) Signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + f.Quantity(d)
	}
	return f.Quantity(d)
}

// Date formats a day
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateTime formats a timestamp to the minute
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
