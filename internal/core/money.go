// Package core provides money parsing and handling utilities.
//
// Amounts are held as signed integer cents. Decimal input is converted with
// half-up rounding on the third fractional digit.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountCents bounds the magnitude of a single amount. Sums of up to
// roughly 900k maximal postings still fit in int64 cents.
const MaxAmountCents = 10_000_000_000_000

var (
	maxCents = decimal.NewFromInt(MaxAmountCents)
	minCents = decimal.NewFromInt(-MaxAmountCents)
)

// MoneyFromDecimal converts a decimal amount to cents, rounding half away from
// zero. Amounts beyond MaxAmountCents in either direction are rejected.
//
//	12.345 -> 1235
//	-40    -> -4000
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return Money{}, fmt.Errorf("%w: magnitude exceeds %s", ErrInvalidAmount, Money{Cents: MaxAmountCents})
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseMoney parses a signed decimal string. Both dot and comma are accepted
// as decimal separator.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// Float returns the amount in currency units for JSON output and aggregates.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Decimal returns the exact amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) IsPositive() bool {
	return m.Cents > 0
}
