// Package store is the REST client for the remote commerce backend. It
// owns no domain logic: it fetches catalog, rate and gateway data, submits
// orders, and persists the customer's cart metadata.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/resilience"
	"github.com/kirana-labs/storefront-checkout/internal/shipping"
	"github.com/kirana-labs/storefront-checkout/internal/tax"
)

// cartMetaKey is the customer metadata key holding the serialized cart
// snapshot.
const cartMetaKey = "storefront_cart"

// Client talks to the commerce backend using query-string key
// authentication.
type Client struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	HTTP           resilience.HTTPClient
	Log            zerolog.Logger
}

// New constructs a Client with retrying transport defaults.
func New(baseURL, key, secret string, timeout time.Duration, maxAttempts int, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		ConsumerKey:    key,
		ConsumerSecret: secret,
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{Timeout: timeout},
			Breaker:     resilience.NewBreaker(5, 0.6, 20*time.Second).WithTarget("store").WithLogger(log),
			MaxAttempts: maxAttempts,
			BaseBackoff: 200 * time.Millisecond,
			Jitter:      0.2,
		},
		Log: log,
	}
}

// GetProduct fetches a product detail record.
func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := c.get(ctx, fmt.Sprintf("/products/%d", id), &p)
	return p, err
}

// GetVariation fetches one variation of a variable product.
func (c *Client) GetVariation(ctx context.Context, productID, variationID int64) (Variation, error) {
	var v Variation
	err := c.get(ctx, fmt.Sprintf("/products/%d/variations/%d", productID, variationID), &v)
	return v, err
}

// TaxRates returns all configured tax rates mapped into the tax engine's
// shape.
func (c *Client) TaxRates(ctx context.Context) ([]tax.Rate, error) {
	var records []TaxRateRecord
	if err := c.get(ctx, "/taxes", &records); err != nil {
		return nil, err
	}
	rates := make([]tax.Rate, 0, len(records))
	for _, r := range records {
		rates = append(rates, tax.Rate{
			ID:       strconv.FormatInt(r.ID, 10),
			Rate:     r.Rate,
			Class:    r.Class,
			Shipping: r.Shipping,
			Name:     r.Name,
		})
	}
	return rates, nil
}

// TaxRatesBestEffort degrades to an empty list on transient failure; an
// unreachable backend means no tax section rather than a blocked checkout.
func (c *Client) TaxRatesBestEffort(ctx context.Context) []tax.Rate {
	rates, err := c.TaxRates(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("tax_rates_unavailable")
		return nil
	}
	return rates
}

// ShippingMethods returns the configured shipping-method instances mapped
// into the evaluator's shape.
func (c *Client) ShippingMethods(ctx context.Context) ([]shipping.Method, error) {
	var records []ShippingMethodRecord
	if err := c.get(ctx, "/shipping_methods", &records); err != nil {
		return nil, err
	}
	methods := make([]shipping.Method, 0, len(records))
	for _, r := range records {
		methods = append(methods, shipping.Method{
			ID:          strconv.FormatInt(r.ID, 10),
			MethodID:    r.MethodID,
			Enabled:     r.Enabled,
			Title:       r.Settings.Title.Value,
			CostFormula: r.Settings.Cost.Value,
			TaxStatus:   r.Settings.TaxStatus.Value,
		})
	}
	return methods, nil
}

// ShippingMethodsBestEffort degrades to an empty list on transient failure,
// which downstream treats as free shipping.
func (c *Client) ShippingMethodsBestEffort(ctx context.Context) []shipping.Method {
	methods, err := c.ShippingMethods(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("shipping_methods_unavailable")
		return nil
	}
	return methods
}

// PaymentGateways lists the gateways offered at checkout.
func (c *Client) PaymentGateways(ctx context.Context) ([]Gateway, error) {
	var gateways []Gateway
	err := c.get(ctx, "/payment_gateways", &gateways)
	return gateways, err
}

// CreateOrder submits an order payload and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	err := c.post(ctx, "/orders", req, &order)
	return order, err
}

// customerRecord is the slice of the customer payload the cart repository
// needs.
type customerRecord struct {
	ID       int64          `json:"id"`
	MetaData []customerMeta `json:"meta_data"`
}

type customerMeta struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// GetCartMeta implements cart.MetaStore by reading the snapshot out of the
// customer's metadata. A missing key yields an empty snapshot.
func (c *Client) GetCartMeta(ctx context.Context, customerID string) (cart.Snapshot, error) {
	var record customerRecord
	if err := c.get(ctx, "/customers/"+url.PathEscape(customerID), &record); err != nil {
		return cart.Snapshot{}, err
	}
	for _, meta := range record.MetaData {
		if meta.Key != cartMetaKey {
			continue
		}
		var snap cart.Snapshot
		if err := json.Unmarshal(meta.Value, &snap); err != nil {
			c.Log.Warn().Err(err).Str("customer_id", customerID).Msg("cart_meta_corrupt")
			return cart.Snapshot{}, nil
		}
		return snap, nil
	}
	return cart.Snapshot{}, nil
}

// PutCartMeta implements cart.MetaStore. The expected version is compared
// against the persisted snapshot before writing; a mismatch aborts with
// cart.ErrVersionConflict. The check is read-then-write, not atomic, but it
// catches the common two-device clobber the unguarded flow allowed.
func (c *Client) PutCartMeta(ctx context.Context, customerID string, snap cart.Snapshot, expectedVersion int64) error {
	current, err := c.GetCartMeta(ctx, customerID)
	if err != nil {
		return err
	}
	if current.Version != expectedVersion {
		return cart.ErrVersionConflict
	}
	value, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"meta_data": []map[string]any{{"key": cartMetaKey, "value": json.RawMessage(value)}},
	}
	return c.post(ctx, "/customers/"+url.PathEscape(customerID), payload, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("store: %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) endpoint(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.BaseURL + path + sep + url.Values{
		"consumer_key":    {c.ConsumerKey},
		"consumer_secret": {c.ConsumerSecret},
	}.Encode()
}
