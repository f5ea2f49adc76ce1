package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/money"
)

// CallbackServer implements CheckoutOpener for headless flows: the hosted
// checkout is presented as a URL and the gateway posts the result back to a
// local HTTP endpoint. One checkout may be in flight at a time, matching
// the single-flight settlement guard upstream.
type CallbackServer struct {
	Addr     string
	Verifier Provider
	Log      zerolog.Logger
	// CheckoutURL receives the URL the shopper must visit. Optional; when
	// nil the URL is only logged.
	CheckoutURL func(url string)

	mu      sync.Mutex
	pending chan checkoutOutcome
	srv     *http.Server
	ln      net.Listener
}

type checkoutOutcome struct {
	result CheckoutResult
	err    error
}

// Start binds the listener and begins serving callback routes.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	r := chi.NewRouter()
	r.Post("/callback/success", s.handleSuccess)
	r.Post("/callback/failure", s.handleFailure)
	s.srv = &http.Server{Handler: r}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Error().Err(err).Msg("callback_server_stopped")
		}
	}()
	return nil
}

// Shutdown stops the callback server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// BaseURL returns the bound callback base URL.
func (s *CallbackServer) BaseURL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Open presents the checkout URL and blocks until the gateway posts a
// result, the context is cancelled, or the server is shut down.
func (s *CallbackServer) Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error) {
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return CheckoutResult{}, errors.New("gateway: checkout already in progress")
	}
	outcome := make(chan checkoutOutcome, 1)
	s.pending = outcome
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}()

	checkoutURL := s.checkoutURL(opts)
	if s.CheckoutURL != nil {
		s.CheckoutURL(checkoutURL)
	}
	s.Log.Info().Str("order_id", opts.OrderID).Str("url", checkoutURL).Msg("checkout_opened")

	select {
	case <-ctx.Done():
		return CheckoutResult{}, ctx.Err()
	case out := <-outcome:
		return out.result, out.err
	}
}

func (s *CallbackServer) checkoutURL(opts CheckoutOptions) string {
	q := url.Values{
		"key":      {opts.KeyID},
		"order_id": {opts.OrderID},
		"amount":   {strconv.FormatInt(opts.AmountMinor, 10)},
		"currency": {opts.Currency},
	}
	if opts.Name != "" {
		q.Set("prefill[name]", opts.Name)
	}
	if opts.Email != "" {
		q.Set("prefill[email]", opts.Email)
	}
	if opts.Contact != "" {
		q.Set("prefill[contact]", opts.Contact)
	}
	if opts.ThemeColor != "" {
		q.Set("theme[color]", opts.ThemeColor)
	}
	return fmt.Sprintf("%s/checkout?%s", s.BaseURL(), q.Encode())
}

func (s *CallbackServer) handleSuccess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	result := CheckoutResult{
		PaymentID: r.PostFormValue("razorpay_payment_id"),
		OrderID:   r.PostFormValue("razorpay_order_id"),
		Signature: r.PostFormValue("razorpay_signature"),
	}
	if s.Verifier != nil && !s.Verifier.VerifySignature(result.OrderID, result.PaymentID, result.Signature) {
		s.Log.Warn().Str("order_id", result.OrderID).Msg("checkout_signature_rejected")
		s.deliver(checkoutOutcome{err: &CheckoutError{Code: CodePaymentFailed, Description: "signature verification failed"}})
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}
	s.deliver(checkoutOutcome{result: result})
	w.WriteHeader(http.StatusOK)
}

func (s *CallbackServer) handleFailure(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	code := ErrorCode(int(money.ParseFloat(r.PostFormValue("code"), float64(CodePaymentFailed))))
	s.deliver(checkoutOutcome{err: &CheckoutError{
		Code:        code,
		Description: r.PostFormValue("description"),
	}})
	w.WriteHeader(http.StatusOK)
}

func (s *CallbackServer) deliver(out checkoutOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return
	}
	select {
	case s.pending <- out:
	default:
	}
}
