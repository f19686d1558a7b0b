// Package calc implements the pure line-item arithmetic for quotations.
package calc

import (
	"math"
)

// LineAmount computes a row's total from quantity, price, a discount
// percentage and a tax percentage:
//
//	qty * price * (1 - discount/100) * (1 + tax/100)
//
// rounded to two decimal places. Non-finite or negative inputs are
// clamped to zero before computing, so the result is always defined
// and non-negative.
func LineAmount(qty, price, discountPct, taxPct float64) float64 {
	qty = clamp(qty)
	price = clamp(price)
	discountPct = clamp(discountPct)
	taxPct = clamp(taxPct)

	subtotal := qty * price
	afterDiscount := subtotal * (1 - discountPct/100)
	total := afterDiscount * (1 + taxPct/100)
	return Round2(total)
}

// GrandTotal sums a sequence of line amounts, rounded to two decimal
// places. An empty sequence totals 0.
func GrandTotal(amounts []float64) float64 {
	var total float64
	for _, a := range amounts {
		total += a
	}
	return Round2(total)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
