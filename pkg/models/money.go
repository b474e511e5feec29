package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents). Storage and arithmetic
// stay in integers; decimal is used only at the parse/format boundary, so
// totals never accumulate floating point drift.
type Money int64

// MoneyFromDecimal converts a decimal amount of major units into Money.
// Amounts with more than two decimal places are rejected rather than rounded.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d.String())
	}
	return Money(cents.IntPart()), nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Mul returns the line total for a quantity of items at this unit price.
func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

// MarshalJSON renders Money as a plain JSON number with two decimal places,
// e.g. 100.00, matching what API clients expect for prices.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", raw, err)
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
