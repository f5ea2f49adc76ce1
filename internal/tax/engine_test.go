package tax_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/tax"
)

func TestCalculateSingleStandardRate(t *testing.T) {
	lines := []cart.Line{{ProductID: "1", UnitPrice: 100, Quantity: 2}}
	rates := []tax.Rate{{ID: "r1", Rate: "18", Class: "", Name: "GST 18%"}}

	calc := tax.Calculate(lines, 50, rates)
	require.InDelta(t, 36, calc.TaxTotal, 1e-9)
	require.Zero(t, calc.ShippingTaxTotal)
	require.Len(t, calc.Lines, 1)
	require.Equal(t, "standard", calc.Lines[0].TaxClass)
	require.Equal(t, 18.0, calc.Lines[0].RatePercent)
}

func TestCalculateShippingInclusiveRate(t *testing.T) {
	lines := []cart.Line{{ProductID: "1", UnitPrice: 200, Quantity: 1}}
	rates := []tax.Rate{{ID: "r1", Rate: "10", Shipping: true}}

	calc := tax.Calculate(lines, 50, rates)
	require.InDelta(t, 20, calc.TaxTotal, 1e-9)
	require.InDelta(t, 5, calc.ShippingTaxTotal, 1e-9)
}

func TestCalculateGroupsByClass(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "1", UnitPrice: 100, Quantity: 1},
		{ProductID: "2", UnitPrice: 200, Quantity: 1, TaxClass: "reduced-rate"},
	}
	rates := []tax.Rate{
		{ID: "std", Rate: "18", Class: ""},
		{ID: "red", Rate: "5", Class: "reduced-rate"},
	}

	calc := tax.Calculate(lines, 0, rates)
	require.Len(t, calc.Lines, 2)
	require.InDelta(t, 18+10, calc.TaxTotal, 1e-9)
}

func TestCalculateDecomposition(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "1", UnitPrice: 99.99, Quantity: 3},
		{ProductID: "2", UnitPrice: 49.5, Quantity: 2, TaxClass: "reduced-rate"},
	}
	rates := []tax.Rate{
		{ID: "a", Rate: "18", Class: "", Shipping: true},
		{ID: "b", Rate: "12", Class: "standard"},
		{ID: "c", Rate: "5", Class: "reduced-rate"},
	}

	calc := tax.Calculate(lines, 40, rates)
	var sumTax, sumShip float64
	for _, l := range calc.Lines {
		sumTax += l.TaxTotal
		sumShip += l.ShippingTaxTotal
	}
	require.InDelta(t, calc.TaxTotal, sumTax, 1e-9)
	require.InDelta(t, calc.ShippingTaxTotal, sumShip, 1e-9)
}

func TestCalculateEmptyRates(t *testing.T) {
	lines := []cart.Line{{ProductID: "1", UnitPrice: 100, Quantity: 1}}
	calc := tax.Calculate(lines, 50, nil)
	require.Zero(t, calc.TaxTotal)
	require.Zero(t, calc.ShippingTaxTotal)
	require.Empty(t, calc.Lines)
}

func TestCalculateSkipsNonTaxableLines(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "1", UnitPrice: 100, Quantity: 1, TaxStatus: "none"},
		{ProductID: "2", UnitPrice: 100, Quantity: 1, TaxStatus: "taxable"},
	}
	rates := []tax.Rate{{ID: "r1", Rate: "10"}}
	calc := tax.Calculate(lines, 0, rates)
	require.InDelta(t, 10, calc.TaxTotal, 1e-9)
}

func TestGSTSplitInvariant(t *testing.T) {
	lines := []cart.Line{{ProductID: "1", UnitPrice: 333.33, Quantity: 1}}
	rates := []tax.Rate{{ID: "r1", Rate: "18", Shipping: true}}

	calc := tax.Calculate(lines, 47.5, rates)
	gst := tax.GST(calc)
	require.Equal(t, gst.CGST, gst.SGST, "CGST and SGST derive from the same half split")
	require.Zero(t, gst.IGST)
	require.InDelta(t, gst.CGST+gst.SGST+gst.IGST, gst.Total, 1e-9)
}

func TestGSTEmptyCalculation(t *testing.T) {
	gst := tax.GST(tax.Calculation{})
	require.Zero(t, gst.Total)
}
