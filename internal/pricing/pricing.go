// Package pricing holds the shipping rule and money rounding shared by the
// cart view and the checkout pipeline so the two can never drift apart.
package pricing

import "math"

const (
	// FreeShippingThreshold is the subtotal at or above which shipping
	// is waived.
	FreeShippingThreshold = 500.0
	// FlatShippingCost applies to every order below the threshold.
	FlatShippingCost = 40.0
)

// Round2 rounds a money amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ShippingFor returns the shipping cost for the given subtotal.
func ShippingFor(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

// Totals returns the shipping cost and grand total for a subtotal.
func Totals(subtotal float64) (shipping, total float64) {
	shipping = ShippingFor(subtotal)
	total = Round2(subtotal + shipping)
	return shipping, total
}
