// Package core holds the domain model and the pure computation components:
// money arithmetic, invoice totals, the daily time-series aggregator, the
// category aggregator, and the invoice filter engine. Nothing in this
// package performs I/O or reads the clock; callers supply rows and "now".
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a monetary amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for malformed or negative input.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Round2 rounds a monetary amount to 2 decimal places (half-up).
// Aggregates sum exact values first and round once here, at the point of
// presentation, so rounding error never compounds.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SumAmounts adds amounts without rounding.
func SumAmounts(amounts ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
