// Package currency converts and formats prices expressed in shmeckles, the
// store's base unit, into the other supported denominations. It holds no
// state and is safe for concurrent use.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency identifies a supported denomination.
type Currency string

const (
	Shmeckles Currency = "shmeckles" // base unit
	Flurbos   Currency = "flurbos"
	Credits   Currency = "credits"
)

// ErrUnknownCurrency is returned when a currency is not in the rate table.
var ErrUnknownCurrency = errors.New("unknown currency")

// Conversion rates relative to shmeckles: 1 shmeckle = rate[c] units of c.
var rates = map[Currency]float64{
	Shmeckles: 1.0,
	Flurbos:   0.65,
	Credits:   0.74,
}

var symbols = map[Currency]string{
	Shmeckles: "₴",
	Flurbos:   "₣",
	Credits:   "₲",
}

var displayNames = map[Currency]string{
	Shmeckles: "Shmeckles",
	Flurbos:   "Flurbos",
	Credits:   "Galactic Credits",
}

// Known reports whether c is a supported currency.
func Known(c Currency) bool {
	_, ok := rates[c]
	return ok
}

// Convert converts a price in shmeckles into the target currency, rounded to
// 2 decimal places.
func Convert(priceShmeckles float64, target Currency) (float64, error) {
	rate, ok := rates[target]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, target)
	}
	result := decimal.NewFromFloat(priceShmeckles).
		Mul(decimal.NewFromFloat(rate)).
		Round(2)
	return result.InexactFloat64(), nil
}

// Format renders an amount with the currency symbol and thousands
// separators, e.g. "₴1,299.99". Unknown currencies render without a symbol.
func Format(amount float64, c Currency) string {
	return symbols[c] + groupThousands(decimal.NewFromFloat(amount).Round(2).StringFixed(2))
}

// DisplayName returns the human-readable currency name.
func DisplayName(c Currency) string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// groupThousands inserts comma separators into the integer part of a fixed
// decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
