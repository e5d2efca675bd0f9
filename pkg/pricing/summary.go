// Package pricing computes order summaries. The same function feeds both the
// cart display totals and the total submitted with an order, so the two are
// bit-identical by construction.
package pricing

import (
	"github.com/angelmondragon/aurelis-storefront/pkg/money"
)

// Policy is the storefront pricing policy. Amounts are minor currency units;
// the tax rate is expressed in basis points (800 = 8%).
type Policy struct {
	TaxRateBasisPoints    int64
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

// Line is the slice of a cart line item the calculator needs.
type Line struct {
	UnitPrice int64
	Quantity  int64
}

// Summary is a fully derived order total breakdown.
type Summary struct {
	Subtotal    int64
	ShippingFee int64
	Tax         int64
	Total       int64
}

// Summarize is a pure function of (lines, policy). Tax rounds half-up at the
// minor unit; a subtotal exactly at the free-shipping threshold ships free.
func Summarize(lines []Line, policy Policy) (Summary, error) {
	var subtotal int64
	for _, line := range lines {
		lineTotal, err := money.LineTotal(line.UnitPrice, line.Quantity)
		if err != nil {
			return Summary{}, err
		}
		subtotal += lineTotal
	}

	var shippingFee int64
	if subtotal < policy.FreeShippingThreshold {
		shippingFee = policy.FlatShippingFee
	}

	tax := money.ApplyBasisPointsHalfUp(subtotal, policy.TaxRateBasisPoints)

	return Summary{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Tax:         tax,
		Total:       subtotal + shippingFee + tax,
	}, nil
}
