package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "plain", input: "5000", expected: "5000.00"},
		{name: "fraction", input: "696.67", expected: "696.67"},
		{name: "grouping commas", input: "12,000.50", expected: "12000.50"},
		{name: "currency prefix", input: "LKR 1,250", expected: "1250.00"},
		{name: "rupee prefix", input: "Rs. 99.90", expected: "99.90"},
		{name: "padded", input: "  42 ", expected: "42.00"},
		{name: "empty", input: "", expectError: true},
		{name: "garbage", input: "twelve", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.StringFixed(2))
		})
	}
}

func TestRoundToNearest(t *testing.T) {
	step := decimal.NewFromInt(500)

	assert.True(t, RoundToNearest(decimal.NewFromInt(35550), step).Equal(decimal.NewFromInt(35500)))
	assert.True(t, RoundToNearest(decimal.NewFromInt(35750), step).Equal(decimal.NewFromInt(36000)))
	assert.True(t, RoundToNearest(decimal.NewFromInt(10000), step).Equal(decimal.NewFromInt(10000)))
	assert.True(t, RoundToNearest(decimal.NewFromInt(7), decimal.Zero).Equal(decimal.NewFromInt(7)))
}

func TestClampAndNonNegative(t *testing.T) {
	lo, hi := decimal.Zero, decimal.NewFromInt(10)

	assert.True(t, Clamp(decimal.NewFromInt(-3), lo, hi).Equal(lo))
	assert.True(t, Clamp(decimal.NewFromInt(30), lo, hi).Equal(hi))
	assert.True(t, Clamp(decimal.NewFromInt(4), lo, hi).Equal(decimal.NewFromInt(4)))
	assert.True(t, NonNegative(decimal.NewFromInt(-1)).IsZero())
}

func TestWireRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("2090").Div(decimal.NewFromInt(3))

	assert.Equal(t, 696.67, ToWire(d))
	assert.Equal(t, "696.67", FromWire(ToWire(d)).StringFixed(2))
	assert.Equal(t, "LKR 696.67", Format(d))
}
