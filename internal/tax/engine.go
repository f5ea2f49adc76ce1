// Package tax computes class-based tax lines and the simplified GST
// breakdown shown on the checkout summary.
package tax

import (
	"strings"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/money"
)

// Rate is a backend tax-rate record. An empty Class denotes the standard
// rate by backend convention.
type Rate struct {
	ID       string
	Rate     string
	Class    string
	Shipping bool
	Name     string
}

// Line is the per-rate tax amount derived for one matching rate.
type Line struct {
	RateID           string
	Label            string
	RatePercent      float64
	TaxClass         string
	TaxTotal         float64
	ShippingTaxTotal float64
}

// Calculation aggregates the tax lines for one cart snapshot. It is derived
// state: recomputed whenever the cart lines or shipping selection change.
type Calculation struct {
	TaxTotal         float64
	ShippingTaxTotal float64
	Lines            []Line
}

// GSTBreakdown is the simplified split shown to the customer. CGST and SGST
// each take half of every tax line; IGST stays zero because inter-state
// rules were never implemented upstream.
type GSTBreakdown struct {
	CGST  float64
	SGST  float64
	IGST  float64
	Total float64
}

// matchesClass reports whether a rate applies to the given tax class. The
// backend stores the standard class as the empty string.
func (r Rate) matchesClass(class string) bool {
	rateClass := strings.TrimSpace(r.Class)
	if class == cart.DefaultTaxClass {
		return rateClass == "" || rateClass == cart.DefaultTaxClass
	}
	return rateClass == class
}

// Calculate groups cart lines by tax class, applies every matching rate and
// returns the per-rate lines plus running totals. An empty rate list yields
// an all-zero calculation.
func Calculate(lines []cart.Line, shippingTotal float64, rates []Rate) Calculation {
	var calc Calculation
	if len(rates) == 0 {
		return calc
	}

	classSubtotals := make(map[string]float64)
	classOrder := make([]string, 0, 4)
	for _, l := range lines {
		if l.Quantity <= 0 || !l.Taxable() {
			continue
		}
		class := l.EffectiveTaxClass()
		if _, seen := classSubtotals[class]; !seen {
			classOrder = append(classOrder, class)
		}
		classSubtotals[class] += l.UnitPrice * float64(l.Quantity)
	}

	for _, class := range classOrder {
		subtotal := classSubtotals[class]
		for _, rate := range rates {
			if !rate.matchesClass(class) {
				continue
			}
			pct := money.ParseFloat(rate.Rate, 0)
			itemTax := subtotal * pct / 100
			var shippingTax float64
			if rate.Shipping {
				shippingTax = shippingTotal * pct / 100
			}
			calc.TaxTotal += itemTax
			calc.ShippingTaxTotal += shippingTax
			calc.Lines = append(calc.Lines, Line{
				RateID:           rate.ID,
				Label:            rate.Name,
				RatePercent:      pct,
				TaxClass:         class,
				TaxTotal:         itemTax,
				ShippingTaxTotal: shippingTax,
			})
		}
	}
	return calc
}

// GST derives the CGST/SGST split from a calculation, rounding each
// component to two decimals at output.
func GST(calc Calculation) GSTBreakdown {
	var b GSTBreakdown
	for _, line := range calc.Lines {
		half := (line.TaxTotal + line.ShippingTaxTotal) / 2
		b.CGST += half
		b.SGST += half
	}
	b.CGST = money.Round2(b.CGST)
	b.SGST = money.Round2(b.SGST)
	b.IGST = money.Round2(b.IGST)
	b.Total = b.CGST + b.SGST + b.IGST
	return b
}
