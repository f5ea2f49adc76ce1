package obs

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Domain counters are package-level so the pricing and checkout layers can
// record outcomes without threading a metrics struct through every call.
var (
	// SettlementTotal counts settlement attempts by path and result.
	SettlementTotal *prometheus.CounterVec
	// PricingFallbackTotal counts silent computation fallbacks by source.
	PricingFallbackTotal *prometheus.CounterVec
	// GatewayOrderTotal counts gateway order creations by result.
	GatewayOrderTotal *prometheus.CounterVec
	// BreakerState exposes the current circuit state per dependency.
	BreakerState *prometheus.GaugeVec
	// BreakerOpenedTotal counts circuit-open transitions per dependency.
	BreakerOpenedTotal *prometheus.CounterVec
)

// RegisterDomainMetrics registers the checkout-domain collectors.
func RegisterDomainMetrics(namespace string, reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	SettlementTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_attempts_total",
		Help:      "Settlement attempts by payment path and result.",
	}, []string{"path", "result"})
	PricingFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_fallbacks_total",
		Help:      "Silent numeric fallbacks taken by the pricing layer.",
	}, []string{"source"})
	GatewayOrderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_orders_total",
		Help:      "Payment-gateway order creations by result.",
	}, []string{"result"})
	BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "breaker_state",
		Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open).",
	}, []string{"target"})
	BreakerOpenedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "breaker_opened_total",
		Help:      "Number of times a circuit breaker opened.",
	}, []string{"target"})
	return mustRegister(reg, SettlementTotal, PricingFallbackTotal, GatewayOrderTotal, BreakerState, BreakerOpenedTotal)
}

func mustRegister(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			already := prometheus.AlreadyRegisteredError{}
			if ok := isAlreadyRegistered(err, &already); ok {
				continue
			}
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

func isAlreadyRegistered(err error, target *prometheus.AlreadyRegisteredError) bool {
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if ok {
		*target = are
	}
	return ok
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
