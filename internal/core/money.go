// Package core holds the pure tally domain: money in cents, the cent-entry
// keypad, line-item building and balance calculation.
//
// This file contains parsing and formatting between cents and euro
// representations, and the keypad accumulator for cent entry.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// CentAmount is a keypad-entered amount in cents, bounded to 999.99 euros.
// The zero value is an empty keypad.
type CentAmount int64

// MaxEntryCents caps keypad entry at 99999 cents (999.99 euros).
const MaxEntryCents CentAmount = 99999

// WithDigit appends a decimal digit to the right of the amount. Appending a
// digit that would exceed MaxEntryCents leaves the amount unchanged; no
// error is raised. Non-digit input is ignored.
func (c CentAmount) WithDigit(d int) CentAmount {
	if d < 0 || d > 9 {
		return c
	}
	next := c*10 + CentAmount(d)
	if next > MaxEntryCents {
		return c
	}
	return next
}

// WithBackspace drops the rightmost digit.
func (c CentAmount) WithBackspace() CentAmount {
	return c / 10
}

// Money converts the keypad amount to a Money value.
func (c CentAmount) Money() Money {
	return Money{Cents: int64(c)}
}

// ApplyKey feeds one keyboard key into the accumulator. Digits append,
// "backspace" and "delete" drop the last digit. The second return value is
// false for keys the keypad does not handle.
func ApplyKey(c CentAmount, key string) (CentAmount, bool) {
	switch {
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return c.WithDigit(int(key[0] - '0')), true
	case strings.EqualFold(key, "backspace"), strings.EqualFold(key, "delete"):
		return c.WithBackspace(), true
	default:
		return c, false
	}
}

// Euros returns the euro value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals and a dot separator, the form
// the ledger sheet stores ("3.50").
func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and
// comma (12,34) separators, which is what the spreadsheet export produces
// depending on cell locale. Zero is valid; negative values are not.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}
