// Package smartnum turns free-form numeric input into decimals.
//
// Operators type amounts the way they say them: "₦3k", "7.5%", "1,200",
// "80 nires". Parse never fails; unreadable input is zero.
package smartnum

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	firstNumberRE = regexp.MustCompile(`-?\d+(\.\d+)?`)
	plainNumberRE = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

	currencyStripper = strings.NewReplacer(
		"$", "", "€", "", "£", "", "¥", "", "₦", "", "₹", "",
		",", "",
	)

	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Parse converts value to a decimal.
//
//	"" / "  "        -> 0
//	"$1,250.50"      -> 1250.50
//	"7.5%"           -> 0.075
//	"3k", "2.5M"     -> 3000, 2500000
//	"80 nires"       -> 80 (first number found)
//	"abc"            -> 0
func Parse(value string) decimal.Decimal {
	s := strings.TrimSpace(currencyStripper.Replace(value))
	if s == "" {
		return decimal.Zero
	}

	if head, ok := strings.CutSuffix(s, "%"); ok {
		if d, ok := plain(head); ok {
			return d.Div(hundred)
		}
	}

	switch last := s[len(s)-1]; last {
	case 'k', 'K':
		if d, ok := plain(s[:len(s)-1]); ok {
			return d.Mul(thousand)
		}
	case 'm', 'M':
		if d, ok := plain(s[:len(s)-1]); ok {
			return d.Mul(million)
		}
	}

	match := firstNumberRE.FindString(s)
	if match == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsBlank reports whether value carries no input at all.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func plain(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !plainNumberRE.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
