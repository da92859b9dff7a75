// Package core holds the domain model: record types and their validation,
// money handling, the aggregation engine, and the savings progress engine.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer cents. Calculations never touch floats except
// for display-level conversions.
type Money struct {
	Cents int64
}

func (m Money) Add(other Money) Money { return Money{Cents: m.Cents + other.Cents} }

func (m Money) Sub(other Money) Money { return Money{Cents: m.Cents - other.Cents} }

// Float64 returns the decimal value for display and JSON output.
// Use cents for arithmetic.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) String() string {
	neg := m.Cents < 0
	c := m.Cents
	if neg {
		c = -c
	}
	s := fmt.Sprintf("%d.%02d", c/100, c%100)
	if neg {
		return "-" + s
	}
	return s
}

// ParseDecimalToCents converts a positive decimal string to cents with
// half-up rounding on the third decimal place. Both dot and comma separators
// are accepted.
//
//	ParseDecimalToCents("12.34")  -> 1234
//	ParseDecimalToCents("12,345") -> 1235 (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := ParseDecimalToCentsNonNegative(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, Invalid("amount must be positive")
	}
	return cents, nil
}

// ParseDecimalToCentsNonNegative is ParseDecimalToCents with zero allowed,
// for fields like a goal's starting progress.
func ParseDecimalToCentsNonNegative(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, Invalid("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, Invalid("amount must be a plain positive decimal")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, Invalid("malformed amount")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, Invalid("malformed amount")
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, Invalid("malformed amount")
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, Invalid("amount out of range")
	}
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
