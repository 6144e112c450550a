package smartnum

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"₦3k", "3000"},
		{"7.5%", "0.075"},
		{"80 nires", "80"},
		{"N 20", "20"},
		{"45n", "45"},
		{"-500", "-500"},
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"$1,250.50", "1250.5"},
		{"€ 99.99", "99.99"},
		{"£2K", "2000"},
		{"2.5M", "2500000"},
		{"¥1m", "1000000"},
		{"₹ 12,345", "12345"},
		{"15 %", "0.15"},
		{"about 7 boxes and 3 crates", "7"},
		{"km", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Parse(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Parse(%q) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "0.01", "-0.5", "1234.56", "99999999.99", "-42"} {
		d := decimal.RequireFromString(s)
		assert.True(t, Parse(d.String()).Equal(d), s)
		assert.True(t, Parse(d.StringFixed(2)).Equal(d), s)
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(" \t"))
	assert.False(t, IsBlank("0"))
}
