// Package pricing holds the pure line and cart arithmetic for the POS
// engine. Money is int64 cents; quantity is a whole unit count;
// discount and VAT are percentages. Discount is always applied before
// tax. The functions never error and never touch state — callers clamp
// invalid numeric input to zero before calling in.
package pricing

import "math"

// LineAmounts are the computed money fields of a single cart line.
type LineAmounts struct {
	SubTotal int64 // after discount, before tax
	Discount int64 // the amount knocked off the gross
	Tax      int64
	Total    int64
}

// CartTotals are the cart-level aggregates, the sum over all lines.
type CartTotals struct {
	SubTotal int64
	Discount int64
	Tax      int64
	Total    int64
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// LineSubTotal computes qty * unitPrice * (1 - discountPct/100).
func LineSubTotal(quantity int, unitPrice int64, discountPct float64) int64 {
	return roundCents(float64(quantity) * float64(unitPrice) * (1 - discountPct/100))
}

// LineTax computes subTotal * vatRate/100.
func LineTax(subTotal int64, vatRate float64) int64 {
	return roundCents(float64(subTotal) * vatRate / 100)
}

// ComputeLine derives every money field of a line in one pass.
func ComputeLine(quantity int, unitPrice int64, discountPct, vatRate float64) LineAmounts {
	gross := int64(quantity) * unitPrice
	subTotal := LineSubTotal(quantity, unitPrice, discountPct)
	tax := LineTax(subTotal, vatRate)
	return LineAmounts{
		SubTotal: subTotal,
		Discount: gross - subTotal,
		Tax:      tax,
		Total:    subTotal + tax,
	}
}

// Accumulate folds a line into running cart totals.
func (t CartTotals) Accumulate(l LineAmounts) CartTotals {
	t.SubTotal += l.SubTotal
	t.Discount += l.Discount
	t.Tax += l.Tax
	t.Total += l.Total
	return t
}
