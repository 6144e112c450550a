// Package numwords spells amounts in English words.
package numwords

import (
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// Int spells a non-negative integer below one trillion, e.g.
// 1200 -> "one thousand two hundred".
func Int(n uint64) string {
	return num2words.Convert(int(n))
}

// Decimal spells d rounded to two places. Non-zero cents are read digit by
// digit after "point": 1200.56 -> "one thousand two hundred point five six".
func Decimal(d decimal.Decimal) string {
	d = d.Round(2)
	prefix := ""
	if d.IsNegative() {
		prefix = "minus "
		d = d.Neg()
	}

	whole := d.Truncate(0)
	words := prefix + Int(uint64(whole.IntPart()))

	cents := int(d.Sub(whole).Shift(2).IntPart())
	if cents == 0 {
		return words
	}
	digits := []string{num2words.Convert(cents / 10)}
	if cents%10 != 0 {
		digits = append(digits, num2words.Convert(cents%10))
	}
	return words + " point " + strings.Join(digits, " ")
}

// Amount spells d followed by the lowercase currency code and "only",
// e.g. "two hundred sixty usd only".
func Amount(d decimal.Decimal, currencyCode string) string {
	return Decimal(d) + " " + strings.ToLower(currencyCode) + " only"
}
