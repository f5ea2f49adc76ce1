// Package shipping evaluates shipping-method cost formulas and selects the
// method a checkout session should use.
package shipping

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/money"
	"github.com/kirana-labs/storefront-checkout/internal/obs"
)

// Placeholder tokens recognised inside a cost formula. They are the only
// non-arithmetic content a formula may contain.
const (
	tokenQty  = "[qty]"
	tokenCost = "[cost]"
)

// Method identifiers the selector special-cases.
const (
	MethodFlatRate     = "flat_rate"
	MethodFreeShipping = "free_shipping"
)

// DefaultFreeShippingThreshold is the subtotal above which a free-shipping
// method is preferred when no flat rate is available.
const DefaultFreeShippingThreshold = 999

// Method is a shipping method offered by the backend for this session.
type Method struct {
	ID          string
	MethodID    string
	Enabled     bool
	Title       string
	CostFormula string
	TaxStatus   string
}

// NormalisedMethodID lowercases the type identifier and collapses spaces so
// "Flat Rate" and "flat_rate" compare equal.
func (m Method) NormalisedMethodID() string {
	id := strings.ToLower(strings.TrimSpace(m.MethodID))
	return strings.ReplaceAll(id, " ", "_")
}

// Evaluator computes method costs and picks the best method for a cart.
type Evaluator struct {
	Log                   zerolog.Logger
	FreeShippingThreshold float64
}

// Cost evaluates the method's cost formula against the cart. A formula may
// be a plain decimal, or an arithmetic expression containing [qty] or
// [cost]. Malformed formulas fall back to coercing the raw value and are
// logged, never raised.
func (e Evaluator) Cost(m Method, lines []cart.Line) float64 {
	raw := strings.TrimSpace(m.CostFormula)
	if raw == "" {
		return 0
	}
	expr := raw
	switch {
	case strings.Contains(raw, tokenQty):
		expr = strings.ReplaceAll(raw, tokenQty, strconv.Itoa(cart.TotalQuantity(lines)))
	case strings.Contains(raw, tokenCost):
		expr = strings.ReplaceAll(raw, tokenCost, strconv.FormatFloat(cart.Subtotal(lines), 'f', -1, 64))
	default:
		return money.ParseFloat(raw, 0)
	}
	value, err := evalArithmetic(expr)
	if err != nil {
		e.Log.Warn().Err(err).Str("method_id", m.MethodID).Str("formula", raw).Msg("formula_fallback")
		if obs.PricingFallbackTotal != nil {
			obs.PricingFallbackTotal.WithLabelValues("shipping_formula").Inc()
		}
		return money.ParseFloat(raw, 0)
	}
	return value
}

// SelectBest picks the method for the session: an enabled flat rate always
// wins; otherwise a free-shipping method once the subtotal clears the
// threshold; otherwise the cheapest enabled method. Ties keep the first
// method encountered. Returns nil when no enabled method exists.
func (e Evaluator) SelectBest(methods []Method, lines []cart.Line) *Method {
	for i := range methods {
		if methods[i].Enabled && methods[i].NormalisedMethodID() == MethodFlatRate {
			return &methods[i]
		}
	}

	threshold := e.FreeShippingThreshold
	if threshold <= 0 {
		threshold = DefaultFreeShippingThreshold
	}
	if cart.Subtotal(lines) > threshold {
		for i := range methods {
			if !methods[i].Enabled {
				continue
			}
			if methods[i].NormalisedMethodID() == MethodFreeShipping || e.Cost(methods[i], lines) == 0 {
				return &methods[i]
			}
		}
	}

	var best *Method
	var bestCost float64
	for i := range methods {
		if !methods[i].Enabled {
			continue
		}
		cost := e.Cost(methods[i], lines)
		if best == nil || cost < bestCost {
			best = &methods[i]
			bestCost = cost
		}
	}
	return best
}
