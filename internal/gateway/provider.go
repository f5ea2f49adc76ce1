// Package gateway abstracts the hosted payment gateway: order creation,
// the hosted checkout hand-off, and result verification.
package gateway

import (
	"context"
	"fmt"
)

// ErrorCode classifies a failed or abandoned checkout, mirroring the
// numeric codes the gateway reports.
type ErrorCode int

const (
	// CodeNetwork indicates the gateway was unreachable.
	CodeNetwork ErrorCode = 0
	// CodePaymentFailed indicates the payment itself was declined.
	CodePaymentFailed ErrorCode = 1
	// CodeUserCancelled indicates the shopper dismissed the checkout.
	CodeUserCancelled ErrorCode = 2
)

// CheckoutError is the gateway's failure callback normalised into an error.
type CheckoutError struct {
	Code        ErrorCode
	Description string
}

// Error implements the error interface.
func (e *CheckoutError) Error() string {
	return fmt.Sprintf("gateway checkout failed (code %d): %s", e.Code, e.Description)
}

// UserCancelled reports whether the error represents an explicit dismissal
// rather than a failure.
func (e *CheckoutError) UserCancelled() bool {
	return e != nil && e.Code == CodeUserCancelled
}

// OrderRequest creates a gateway-side order before checkout opens. Amounts
// are in the gateway's minor currency unit.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
}

// Order is the gateway's created order.
type Order struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

// CheckoutOptions parameterise the hosted checkout surface.
type CheckoutOptions struct {
	OrderID     string
	AmountMinor int64
	Currency    string
	KeyID       string
	Name        string
	Email       string
	Contact     string
	ThemeColor  string
}

// CheckoutResult is the gateway's success callback payload.
type CheckoutResult struct {
	PaymentID string
	OrderID   string
	Signature string
}

// Provider creates gateway orders and verifies checkout results.
type Provider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutOpener presents the hosted checkout and blocks until the shopper
// completes, fails or dismisses it.
type CheckoutOpener interface {
	Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error)
}
