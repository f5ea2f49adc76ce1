// Package pricing derives discounts and the final payable total for a
// checkout session. All functions are best-effort numeric: they never
// return errors and never panic on malformed backend data.
package pricing

import (
	"math"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
)

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal float64
	Discount float64
	Shipping float64
	Tax      float64
	Total    float64
}

// PercentDiscount returns the rounded percentage saved between a regular
// and sale price, or nil when no meaningful discount exists. A nil result
// suppresses the discount badge; zero or negative discounts are never shown.
func PercentDiscount(regular, sale float64) *int {
	if regular <= 0 || sale <= 0 || regular <= sale {
		return nil
	}
	pct := int(math.Round((regular - sale) / regular * 100))
	if pct <= 0 {
		return nil
	}
	return &pct
}

// Compute combines the cart subtotal, coupon discount, shipping total and
// tax total into the final payable amount. Callers must recompute whenever
// lines, coupons, the selected shipping method or tax rates change.
func Compute(lines []cart.Line, coupons []cart.Coupon, shippingTotal, taxTotal float64) Summary {
	subtotal := cart.Subtotal(lines)
	discount := CouponDiscountTotal(subtotal, coupons)
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shippingTotal,
		Tax:      taxTotal,
		Total:    subtotal - discount + shippingTotal + taxTotal,
	}
}
