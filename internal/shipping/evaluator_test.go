package shipping_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/shipping"
)

func evaluator() shipping.Evaluator {
	return shipping.Evaluator{Log: zerolog.Nop()}
}

func TestCostQtySubstitution(t *testing.T) {
	lines := []cart.Line{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 50, Quantity: 1},
	}
	m := shipping.Method{CostFormula: "[qty]*10", Enabled: true}
	require.Equal(t, 30.0, evaluator().Cost(m, lines))
}

func TestCostQtyWithBase(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 100, Quantity: 2}}
	m := shipping.Method{CostFormula: "40+[qty]*5"}
	require.Equal(t, 50.0, evaluator().Cost(m, lines))
}

func TestCostCostSubstitution(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 500, Quantity: 1}}
	m := shipping.Method{CostFormula: "[cost]*0.1"}
	require.InDelta(t, 50, evaluator().Cost(m, lines), 1e-9)
}

func TestCostPlainLiteral(t *testing.T) {
	m := shipping.Method{CostFormula: "49.50"}
	require.Equal(t, 49.5, evaluator().Cost(m, nil))
}

func TestCostMalformedFormulaFallsBack(t *testing.T) {
	m := shipping.Method{CostFormula: "[qty]*banana"}
	// substitution yields "3*banana" which fails to evaluate; the raw value
	// is coerced, and a non-numeric raw coerces to zero.
	lines := []cart.Line{{UnitPrice: 10, Quantity: 3}}
	require.Equal(t, 0.0, evaluator().Cost(m, lines))
}

func TestCostEmptyFormula(t *testing.T) {
	require.Equal(t, 0.0, evaluator().Cost(shipping.Method{}, nil))
}

func TestSelectBestFlatRateAlwaysWins(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 1200, Quantity: 1}}
	methods := []shipping.Method{
		{ID: "1", MethodID: "flat_rate", Enabled: true, CostFormula: "50"},
		{ID: "2", MethodID: "free_shipping", Enabled: true, CostFormula: "0"},
	}
	best := evaluator().SelectBest(methods, lines)
	require.NotNil(t, best)
	require.Equal(t, "1", best.ID, "flat rate wins even above the free-shipping threshold")
}

func TestSelectBestFreeShippingOverThreshold(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 1200, Quantity: 1}}
	methods := []shipping.Method{
		{ID: "1", MethodID: "local_pickup", Enabled: true, CostFormula: "20"},
		{ID: "2", MethodID: "free_shipping", Enabled: true, CostFormula: "0"},
	}
	best := evaluator().SelectBest(methods, lines)
	require.NotNil(t, best)
	require.Equal(t, "2", best.ID)
}

func TestSelectBestCheapestUnderThreshold(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 100, Quantity: 1}}
	methods := []shipping.Method{
		{ID: "1", MethodID: "courier_a", Enabled: true, CostFormula: "80"},
		{ID: "2", MethodID: "courier_b", Enabled: true, CostFormula: "60"},
		{ID: "3", MethodID: "courier_c", Enabled: true, CostFormula: "60"},
	}
	best := evaluator().SelectBest(methods, lines)
	require.NotNil(t, best)
	require.Equal(t, "2", best.ID, "strict less-than keeps the first of a tie")
}

func TestSelectBestSkipsDisabled(t *testing.T) {
	methods := []shipping.Method{
		{ID: "1", MethodID: "flat_rate", Enabled: false, CostFormula: "50"},
		{ID: "2", MethodID: "courier", Enabled: true, CostFormula: "70"},
	}
	best := evaluator().SelectBest(methods, nil)
	require.NotNil(t, best)
	require.Equal(t, "2", best.ID)
}

func TestSelectBestNoEnabledMethods(t *testing.T) {
	methods := []shipping.Method{{ID: "1", MethodID: "flat_rate", Enabled: false}}
	require.Nil(t, evaluator().SelectBest(methods, nil))
}

func TestNormalisedMethodID(t *testing.T) {
	m := shipping.Method{MethodID: " Flat Rate "}
	require.Equal(t, "flat_rate", m.NormalisedMethodID())
}
