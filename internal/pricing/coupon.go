package pricing

import (
	"strings"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/money"
)

// Coupon discount types understood by the pipeline. The backend also
// enumerates fixed_product, which this pipeline does not apply; its
// per-line versus per-cart semantics were never settled upstream, so it
// contributes zero rather than a guessed amount.
const (
	DiscountTypePercent   = "percent"
	DiscountTypeFixedCart = "fixed_cart"
)

// CouponDiscountTotal sums the discount contributed by each applied coupon
// against the provided subtotal. Unknown discount types contribute zero.
func CouponDiscountTotal(subtotal float64, coupons []cart.Coupon) float64 {
	var total float64
	for _, c := range coupons {
		amount := money.ParseFloat(c.Amount, 0)
		switch strings.ToLower(strings.TrimSpace(c.DiscountType)) {
		case DiscountTypePercent:
			total += subtotal * amount / 100
		case DiscountTypeFixedCart:
			total += amount
		}
	}
	return total
}
