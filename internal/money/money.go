// Package money holds the decimal helpers used for every amount and rate.
// Amounts are LKR; arithmetic stays in decimal.Decimal and is only rounded
// when a value leaves the process (persistence, RPC responses, CSV).
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the only currency the ledger records.
const Currency = "LKR"

// Places is the number of fraction digits of one minimum currency unit.
const Places = 2

// Parse reads a user-entered amount. Grouping commas and a leading currency
// code are tolerated so that pasted receipt totals parse.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(strings.ToUpper(cleaned), Currency)
	cleaned = strings.TrimPrefix(cleaned, "RS.")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Round rounds to the minimum currency unit.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ToWire converts an amount for storage as a document number.
func ToWire(d decimal.Decimal) float64 {
	return Round(d).InexactFloat64()
}

// RateToWire converts a rate for storage; rates keep more precision than amounts.
func RateToWire(d decimal.Decimal) float64 {
	return d.Round(6).InexactFloat64()
}

// FromWire converts a stored document number back to a decimal.
func FromWire(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Format renders an amount for people, e.g. "LKR 696.67".
func Format(d decimal.Decimal) string {
	return fmt.Sprintf("%s %s", Currency, d.StringFixed(Places))
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(d, decimal.Zero)
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(d, lo), hi)
}

// RoundToNearest rounds d to the nearest multiple of step, halves away from zero.
func RoundToNearest(d, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return d
	}
	return d.Div(step).Round(0).Mul(step)
}
