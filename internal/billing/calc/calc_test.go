package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name     string
		qty      float64
		price    float64
		discount float64
		tax      float64
		want     float64
	}{
		{
			name: "widget with tax",
			qty:  2, price: 10, discount: 0, tax: 10,
			want: 22.00,
		},
		{
			name: "discount then tax",
			qty:  1, price: 100, discount: 10, tax: 18,
			want: 106.20,
		},
		{
			name: "no discount no tax",
			qty:  3, price: 33.33, discount: 0, tax: 0,
			want: 99.99,
		},
		{
			name: "full discount",
			qty:  5, price: 20, discount: 100, tax: 12,
			want: 0,
		},
		{
			name: "zero quantity",
			qty:  0, price: 50, discount: 5, tax: 5,
			want: 0,
		},
		{
			name: "negative inputs clamp to zero",
			qty:  -2, price: 10, discount: 0, tax: 0,
			want: 0,
		},
		{
			name: "nan price clamps to zero",
			qty:  2, price: math.NaN(), discount: 0, tax: 0,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAmount(tt.qty, tt.price, tt.discount, tt.tax)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestLineAmount_MatchesFormula(t *testing.T) {
	cases := []struct{ qty, price, discount, tax float64 }{
		{1, 1, 0, 0},
		{2.5, 19.99, 12.5, 18},
		{100, 0.01, 50, 28},
		{7, 123.45, 3, 5},
	}
	for _, c := range cases {
		want := Round2(c.qty * c.price * (1 - c.discount/100) * (1 + c.tax/100))
		assert.InDelta(t, want, LineAmount(c.qty, c.price, c.discount, c.tax), 0.001)
	}
}

func TestGrandTotal(t *testing.T) {
	assert.Equal(t, 0.0, GrandTotal(nil))
	assert.Equal(t, 0.0, GrandTotal([]float64{}))
	assert.InDelta(t, 22.00, GrandTotal([]float64{22.00}), 0.001)
	assert.InDelta(t, 61.49, GrandTotal([]float64{22.00, 39.49}), 0.001)
	// Rounding applies to the sum, not only the parts.
	assert.InDelta(t, 0.30, GrandTotal([]float64{0.1, 0.1, 0.1}), 0.001)
}
