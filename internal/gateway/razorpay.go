package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/resilience"
)

// Razorpay implements Provider against the Razorpay orders API.
type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	HTTP      resilience.HTTPClient
	Log       zerolog.Logger
}

// NewRazorpay constructs a Razorpay provider with retrying transport
// defaults.
func NewRazorpay(keyID, keySecret string, log zerolog.Logger) *Razorpay {
	return &Razorpay{
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{Timeout: 15 * time.Second},
			Breaker:     resilience.NewBreaker(5, 0.6, 20*time.Second).WithTarget("razorpay").WithLogger(log),
			MaxAttempts: 2,
			BaseBackoff: 250 * time.Millisecond,
			Jitter:      0.2,
		},
		Log: log,
	}
}

func (r *Razorpay) host() string {
	host := strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	if host == "" {
		return "https://api.razorpay.com"
	}
	return host
}

// CreateOrder opens a gateway order for the provided amount. The receipt id
// ties the gateway order back to the checkout session.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if req.AmountMinor <= 0 {
		return Order{}, errors.New("gateway: order amount must be positive")
	}
	if strings.TrimSpace(req.Receipt) == "" {
		return Order{}, errors.New("gateway: receipt is required")
	}
	body, err := json.Marshal(map[string]any{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	})
	if err != nil {
		return Order{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.host()+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(r.KeyID, r.KeySecret)

	resp, err := r.HTTP.Do(ctx, httpReq)
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Order{}, fmt.Errorf("gateway: create order: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// VerifySignature checks the checkout result signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	key := strings.TrimSpace(r.KeySecret)
	provided := strings.TrimSpace(signature)
	if key == "" || provided == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(provided))
}
