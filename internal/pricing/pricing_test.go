package pricing

import "testing"

func TestShippingThresholdBoundary(t *testing.T) {
	cases := []struct {
		subtotal float64
		shipping float64
		total    float64
	}{
		{500.00, 0, 500.00},
		{499.99, 40, 539.99},
		{500.01, 0, 500.01},
		{0, 40, 40},
		{1200, 0, 1200},
	}
	for _, tc := range cases {
		shipping, total := Totals(tc.subtotal)
		if shipping != tc.shipping {
			t.Errorf("subtotal %.2f: expected shipping %.2f, got %.2f", tc.subtotal, tc.shipping, shipping)
		}
		if total != tc.total {
			t.Errorf("subtotal %.2f: expected total %.2f, got %.2f", tc.subtotal, tc.total, total)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3 * 33.333333); got != 100.0 {
		t.Errorf("expected 100.0, got %v", got)
	}
	if got := Round2(0.1 + 0.2); got != 0.3 {
		t.Errorf("expected 0.3, got %v", got)
	}
}
