package numwords

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := map[uint64]string{
		0:             "zero",
		7:             "seven",
		13:            "thirteen",
		40:            "forty",
		100:           "one hundred",
		260:           "two hundred sixty",
		1000:          "one thousand",
		1200:          "one thousand two hundred",
		1_000_005:     "one million five",
		12_300_000:    "twelve million three hundred thousand",
		1_000_000_000: "one billion",
	}
	for n, want := range tests {
		assert.Equal(t, want, Int(n), n)
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"260.00", "two hundred sixty"},
		{"1200.56", "one thousand two hundred point five six"},
		{"0.5", "zero point five"},
		{"10.05", "ten point zero five"},
		{"-3", "minus three"},
		{"0.999", "one"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decimal(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "two hundred sixty usd only", Amount(decimal.RequireFromString("260"), "USD"))
	assert.Equal(t, "three thousand ngn only", Amount(decimal.NewFromInt(3000), "NGN"))
}
