// Package checkout runs the settlement sequencer: it validates the session,
// prices a consistent snapshot, and places the order over the cash-on-delivery
// or hosted-gateway path.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/gateway"
	"github.com/kirana-labs/storefront-checkout/internal/money"
	"github.com/kirana-labs/storefront-checkout/internal/obs"
	"github.com/kirana-labs/storefront-checkout/internal/pricing"
	"github.com/kirana-labs/storefront-checkout/internal/shipping"
	"github.com/kirana-labs/storefront-checkout/internal/store"
	"github.com/kirana-labs/storefront-checkout/internal/tax"
)

// MethodCOD is the cash-on-delivery payment method identifier.
const MethodCOD = "cod"

// OrderStatusProcessing is the backend status a freshly placed order gets.
const OrderStatusProcessing = "processing"

var (
	// ErrCartEmpty rejects settlement of a cart with no lines.
	ErrCartEmpty = errors.New("checkout: cart is empty")
	// ErrNoPaymentMethod rejects settlement before a method is chosen.
	ErrNoPaymentMethod = errors.New("checkout: no payment method selected")
	// ErrMethodNotSupported rejects a method some cart line does not allow.
	ErrMethodNotSupported = errors.New("checkout: payment method not supported by every item")
	// ErrSettlementInProgress rejects re-entry while an attempt is running.
	ErrSettlementInProgress = errors.New("checkout: settlement already in progress")
	// ErrConfirmationDeclined reports the shopper backing out of the
	// cash-on-delivery confirmation step.
	ErrConfirmationDeclined = errors.New("checkout: confirmation declined")
)

// Backend is the slice of the commerce client the sequencer needs.
type Backend interface {
	TaxRatesBestEffort(ctx context.Context) []tax.Rate
	ShippingMethodsBestEffort(ctx context.Context) []shipping.Method
	CreateOrder(ctx context.Context, req store.OrderRequest) (store.Order, error)
}

// Quote is one consistent pricing snapshot: shipping selection, tax lines
// and the payable summary all derived from the same cart state.
type Quote struct {
	Summary      pricing.Summary
	Taxes        tax.Calculation
	GST          tax.GSTBreakdown
	Method       *shipping.Method
	ShippingCost float64
}

// Input carries everything one settlement attempt needs. BuyNow marks a
// direct purchase that bypassed the persisted cart, so the cart is left
// untouched on success.
type Input struct {
	CustomerID         int64
	Lines              []cart.Line
	Coupons            []cart.Coupon
	Billing            Address
	Shipping           Address
	PaymentMethod      string
	PaymentMethodTitle string
	BuyNow             bool
}

// Result reports a completed settlement.
type Result struct {
	OrderID          int64
	OrderStatus      string
	Quote            Quote
	GatewayOrderID   string
	GatewayPaymentID string
}

// Service is the settlement sequencer. A single instance serves one
// customer session; Place is single-flight guarded.
type Service struct {
	Backend   Backend
	Cart      cart.Repository
	Gateway   gateway.Provider
	Checkout  gateway.CheckoutOpener
	Evaluator shipping.Evaluator
	Validate  *Validator
	Log       zerolog.Logger

	Currency     string
	GatewayKeyID string
	ThemeColor   string

	// ConfirmCOD, when set, is consulted before a cash-on-delivery order is
	// placed. Returning false aborts the attempt without an order.
	ConfirmCOD func(ctx context.Context, q Quote) bool

	mu    sync.Mutex
	state State
}

// CurrentState reports the sequencer state, for UI gating.
func (s *Service) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.Log.Debug().Str("state", next.String()).Msg("settlement_state")
}

// Quote prices the given lines against the backend's current shipping
// methods and tax rates. Backend lookups degrade to empty sets, so a quote
// always succeeds; a degraded quote simply carries no shipping or tax.
func (s *Service) Quote(ctx context.Context, lines []cart.Line, coupons []cart.Coupon) Quote {
	var q Quote
	methods := s.Backend.ShippingMethodsBestEffort(ctx)
	q.Method = s.Evaluator.SelectBest(methods, lines)
	if q.Method != nil {
		q.ShippingCost = s.Evaluator.Cost(*q.Method, lines)
	}
	rates := s.Backend.TaxRatesBestEffort(ctx)
	q.Taxes = tax.Calculate(lines, q.ShippingCost, rates)
	q.GST = tax.GST(q.Taxes)
	q.Summary = pricing.Compute(lines, coupons, q.ShippingCost, q.Taxes.TaxTotal+q.Taxes.ShippingTaxTotal)
	return q
}

// Place runs one settlement attempt end to end. Only one attempt may run at
// a time; concurrent calls fail fast with ErrSettlementInProgress.
func (s *Service) Place(ctx context.Context, in Input) (Result, error) {
	var zero Result
	if s == nil || s.Backend == nil {
		return zero, errors.New("checkout service not configured")
	}
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return zero, ErrSettlementInProgress
	}
	s.state = StateValidating
	s.mu.Unlock()

	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "CheckoutService.Place")
	defer span.End()

	start := time.Now()
	path := "gateway"
	if strings.EqualFold(strings.TrimSpace(in.PaymentMethod), MethodCOD) {
		path = MethodCOD
	}
	result := "error"
	defer func() {
		s.setState(StateIdle)
		span.SetAttributes(
			attribute.String("settlement.path", path),
			attribute.String("settlement.result", result),
			attribute.Float64("settlement.duration_ms", obs.DurationMillis(time.Since(start))),
		)
		if obs.SettlementTotal != nil {
			obs.SettlementTotal.WithLabelValues(path, result).Inc()
		}
	}()

	if err := s.validate(in); err != nil {
		result = "rejected"
		return zero, err
	}

	q := s.Quote(ctx, in.Lines, in.Coupons)

	var (
		res Result
		err error
	)
	if path == MethodCOD {
		res, err = s.placeCOD(ctx, in, q)
	} else {
		res, err = s.placeGateway(ctx, in, q)
	}
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrConfirmationDeclined):
			result = "declined"
		case isUserCancelled(err):
			result = "cancelled"
		}
		return zero, err
	}
	result = "success"
	span.SetAttributes(attribute.Int64("order.id", res.OrderID))
	return res, nil
}

func (s *Service) validate(in Input) error {
	if len(in.Lines) == 0 {
		return ErrCartEmpty
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return ErrNoPaymentMethod
	}
	for _, l := range in.Lines {
		if !l.Supports(method) {
			return fmt.Errorf("%w: %s", ErrMethodNotSupported, l.ProductID)
		}
	}
	if s.Validate != nil {
		if err := s.Validate.Address("shipping", in.Shipping, false); err != nil {
			return err
		}
		if err := s.Validate.Address("billing", in.Billing, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) placeCOD(ctx context.Context, in Input, q Quote) (Result, error) {
	var zero Result
	if s.ConfirmCOD != nil && !s.ConfirmCOD(ctx, q) {
		return zero, ErrConfirmationDeclined
	}

	s.setState(StateCreatingOrder)
	req := buildOrderRequest(in, q, false, nil)
	order, err := s.Backend.CreateOrder(ctx, req)
	if err != nil {
		return zero, fmt.Errorf("create order: %w", err)
	}
	s.clearCart(ctx, in)
	s.setState(StateDone)
	s.Log.Info().Int64("order_id", order.ID).Str("path", MethodCOD).Msg("order_placed")
	return Result{OrderID: order.ID, OrderStatus: order.Status, Quote: q}, nil
}

func (s *Service) placeGateway(ctx context.Context, in Input, q Quote) (Result, error) {
	var zero Result
	if s.Gateway == nil || s.Checkout == nil {
		return zero, errors.New("payment gateway not configured")
	}

	s.setState(StateCreatingGatewayOrder)
	gwOrder, err := s.Gateway.CreateOrder(ctx, gateway.OrderRequest{
		AmountMinor: money.MinorUnits(q.Summary.Total),
		Currency:    s.currency(),
		Receipt:     "rcpt_" + uuid.NewString(),
	})
	if err != nil {
		if obs.GatewayOrderTotal != nil {
			obs.GatewayOrderTotal.WithLabelValues("error").Inc()
		}
		return zero, fmt.Errorf("create gateway order: %w", err)
	}
	if obs.GatewayOrderTotal != nil {
		obs.GatewayOrderTotal.WithLabelValues("success").Inc()
	}

	s.setState(StateAwaitingGatewayResult)
	payment, err := s.Checkout.Open(ctx, gateway.CheckoutOptions{
		OrderID:     gwOrder.ID,
		AmountMinor: gwOrder.AmountMinor,
		Currency:    gwOrder.Currency,
		KeyID:       s.GatewayKeyID,
		Name:        strings.TrimSpace(in.Billing.FirstName + " " + in.Billing.LastName),
		Email:       in.Billing.Email,
		Contact:     in.Billing.Phone,
		ThemeColor:  s.ThemeColor,
	})
	if err != nil {
		// The gateway-side order stays behind unsettled; it expires on the
		// gateway without a compensating void.
		evt := s.Log.Warn()
		if isUserCancelled(err) {
			evt = s.Log.Info()
		}
		evt.Err(err).Str("gateway_order_id", gwOrder.ID).Msg("gateway_order_unsettled")
		return zero, err
	}

	s.setState(StateCreatingOrder)
	meta := []store.MetaEntry{
		{Key: "razorpay_order_id", Value: payment.OrderID},
		{Key: "razorpay_payment_id", Value: payment.PaymentID},
		{Key: "razorpay_signature", Value: payment.Signature},
	}
	req := buildOrderRequest(in, q, true, meta)
	order, err := s.Backend.CreateOrder(ctx, req)
	if err != nil {
		// Payment captured but the backend order failed. Surface the error
		// with the payment id so support can reconcile manually.
		s.Log.Error().Err(err).Str("payment_id", payment.PaymentID).Msg("order_create_after_payment_failed")
		return zero, fmt.Errorf("create order after payment %s: %w", payment.PaymentID, err)
	}
	s.clearCart(ctx, in)
	s.setState(StateDone)
	s.Log.Info().Int64("order_id", order.ID).Str("path", "gateway").Str("payment_id", payment.PaymentID).Msg("order_placed")
	return Result{
		OrderID:          order.ID,
		OrderStatus:      order.Status,
		Quote:            q,
		GatewayOrderID:   payment.OrderID,
		GatewayPaymentID: payment.PaymentID,
	}, nil
}

// clearCart empties the persisted cart once the order exists. The order is
// already placed, so failures are logged and swallowed.
func (s *Service) clearCart(ctx context.Context, in Input) {
	if in.BuyNow || s.Cart == nil {
		return
	}
	s.setState(StateClearingCart)
	if err := s.Cart.Clear(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("cart_clear_failed")
	}
}

func (s *Service) currency() string {
	if s.Currency != "" {
		return s.Currency
	}
	return "INR"
}

func isUserCancelled(err error) bool {
	var ce *gateway.CheckoutError
	return errors.As(err, &ce) && ce.UserCancelled()
}
