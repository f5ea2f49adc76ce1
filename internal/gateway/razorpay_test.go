package gateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kirana-labs/storefront-checkout/internal/gateway"
	"github.com/kirana-labs/storefront-checkout/internal/resilience"
)

func newRazorpay(t *testing.T, handler http.Handler) *gateway.Razorpay {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	r := gateway.NewRazorpay("rzp_test_key", "secret", zerolog.Nop())
	r.BaseURL = srv.URL
	r.HTTP = resilience.HTTPClient{Client: &http.Client{Timeout: 2 * time.Second}, MaxAttempts: 1}
	return r
}

func TestCreateOrder(t *testing.T) {
	r := newRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/v1/orders", req.URL.Path)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, float64(26600), body["amount"])
		require.Equal(t, "INR", body["currency"])

		_ = json.NewEncoder(w).Encode(gateway.Order{ID: "order_123", AmountMinor: 26600, Currency: "INR", Status: "created"})
	}))

	order, err := r.CreateOrder(context.Background(), gateway.OrderRequest{AmountMinor: 26600, Currency: "INR", Receipt: "rcpt_1"})
	require.NoError(t, err)
	require.Equal(t, "order_123", order.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	r := gateway.NewRazorpay("k", "s", zerolog.Nop())
	_, err := r.CreateOrder(context.Background(), gateway.OrderRequest{AmountMinor: 0, Receipt: "x"})
	require.Error(t, err)
	_, err = r.CreateOrder(context.Background(), gateway.OrderRequest{AmountMinor: 100})
	require.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	r := gateway.NewRazorpay("k", "topsecret", zerolog.Nop())
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("order_1|pay_1"))
	sig := hex.EncodeToString(mac.Sum(nil))

	require.True(t, r.VerifySignature("order_1", "pay_1", sig))
	require.False(t, r.VerifySignature("order_1", "pay_2", sig))
	require.False(t, r.VerifySignature("order_1", "pay_1", ""))
}
