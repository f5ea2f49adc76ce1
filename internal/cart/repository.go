package cart

import (
	"context"
	"errors"
)

// ErrVersionConflict indicates the persisted cart changed between Load and
// Save. Callers should reload and retry.
var ErrVersionConflict = errors.New("cart: snapshot version conflict")

// Snapshot is the versioned cart blob persisted as customer metadata. Each
// screen loads its own snapshot and saves it back explicitly; the version
// counter detects concurrent writers.
type Snapshot struct {
	Version int64    `json:"version"`
	Lines   []Line   `json:"lines"`
	Coupons []Coupon `json:"coupons,omitempty"`
}

// Coupon is an applied coupon carried in the persisted cart metadata. The
// checkout pipeline only reads it; issuance and removal live elsewhere.
type Coupon struct {
	Code         string `json:"code"`
	Amount       string `json:"amount"`
	DiscountType string `json:"discountType"`
}

// Repository loads and stores the per-customer cart snapshot.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// MetaStore is the slice of the backend client the repository needs.
type MetaStore interface {
	GetCartMeta(ctx context.Context, customerID string) (Snapshot, error)
	PutCartMeta(ctx context.Context, customerID string, snap Snapshot, expectedVersion int64) error
}

// BackendRepository persists cart snapshots through the commerce backend's
// customer metadata, guarding writes with a version check.
type BackendRepository struct {
	Store      MetaStore
	CustomerID string
}

// Load fetches the current snapshot for the customer.
func (r *BackendRepository) Load(ctx context.Context) (Snapshot, error) {
	if r == nil || r.Store == nil {
		return Snapshot{}, errors.New("cart repository not configured")
	}
	return r.Store.GetCartMeta(ctx, r.CustomerID)
}

// Save writes the snapshot back, bumping the version. The store rejects the
// write with ErrVersionConflict when the persisted version has moved on.
func (r *BackendRepository) Save(ctx context.Context, snap Snapshot) error {
	if r == nil || r.Store == nil {
		return errors.New("cart repository not configured")
	}
	expected := snap.Version
	snap.Version = expected + 1
	return r.Store.PutCartMeta(ctx, r.CustomerID, snap, expected)
}

// Clear replaces the persisted snapshot with an empty one. Version conflicts
// are ignored: after a placed order the cart is stale either way.
func (r *BackendRepository) Clear(ctx context.Context) error {
	if r == nil || r.Store == nil {
		return errors.New("cart repository not configured")
	}
	current, err := r.Store.GetCartMeta(ctx, r.CustomerID)
	if err != nil {
		return err
	}
	return r.Store.PutCartMeta(ctx, r.CustomerID, Snapshot{Version: current.Version + 1}, current.Version)
}
