package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"docengine/internal/core/types"
	"docengine/pkg/numwords"
)

// FormatMoney renders amount with thousands separators and two decimals,
// prefixed by symbol: "$1,234.56", "-₦50.00".
func FormatMoney(symbol string, amount types.Money) string {
	p := message.NewPrinter(language.English)

	// Floats only at the render boundary; the value is already rounded.
	f, _ := types.RoundMoney(amount.Abs()).Float64()
	s := p.Sprint(number.Decimal(f, number.Scale(2)))
	if amount.IsNegative() {
		return "-" + symbol + s
	}
	return symbol + s
}

// TotalWords spells amount in English followed by the currency code and
// "only": "one hundred usd only".
func TotalWords(amount types.Money, currencyCode string) string {
	return numwords.Amount(amount, currencyCode)
}
