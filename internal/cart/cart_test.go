package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
)

func TestLineDefaults(t *testing.T) {
	line := cart.Line{ProductID: "42", UnitPrice: 100, Quantity: 1}
	require.Equal(t, "standard", line.EffectiveTaxClass())
	require.True(t, line.Taxable())
	require.True(t, line.Supports("cod"), "empty method list supports everything")
}

func TestLineSupports(t *testing.T) {
	line := cart.Line{SupportedMethods: []string{"razorpay"}}
	require.True(t, line.Supports("Razorpay"))
	require.False(t, line.Supports("cod"))
}

func TestSubtotalSkipsNonPositiveQty(t *testing.T) {
	lines := []cart.Line{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 50, Quantity: 0},
		{UnitPrice: 10, Quantity: 3},
	}
	require.Equal(t, 230.0, cart.Subtotal(lines))
	require.Equal(t, 5, cart.TotalQuantity(lines))
}

type stubMetaStore struct {
	snap     cart.Snapshot
	putCalls int
	failPut  error
}

func (s *stubMetaStore) GetCartMeta(_ context.Context, _ string) (cart.Snapshot, error) {
	return s.snap, nil
}

func (s *stubMetaStore) PutCartMeta(_ context.Context, _ string, snap cart.Snapshot, expected int64) error {
	if s.failPut != nil {
		return s.failPut
	}
	if s.snap.Version != expected {
		return cart.ErrVersionConflict
	}
	s.snap = snap
	s.putCalls++
	return nil
}

func TestRepositorySaveBumpsVersion(t *testing.T) {
	store := &stubMetaStore{snap: cart.Snapshot{Version: 3}}
	repo := &cart.BackendRepository{Store: store, CustomerID: "7"}

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	snap.Lines = append(snap.Lines, cart.Line{ProductID: "42", UnitPrice: 10, Quantity: 1})
	require.NoError(t, repo.Save(context.Background(), snap))
	require.Equal(t, int64(4), store.snap.Version)
	require.Len(t, store.snap.Lines, 1)
}

func TestRepositorySaveDetectsConflict(t *testing.T) {
	store := &stubMetaStore{snap: cart.Snapshot{Version: 5}}
	repo := &cart.BackendRepository{Store: store, CustomerID: "7"}

	stale := cart.Snapshot{Version: 4}
	err := repo.Save(context.Background(), stale)
	require.True(t, errors.Is(err, cart.ErrVersionConflict))
}

func TestRepositoryClearEmptiesSnapshot(t *testing.T) {
	store := &stubMetaStore{snap: cart.Snapshot{Version: 2, Lines: []cart.Line{{ProductID: "1", Quantity: 1}}}}
	repo := &cart.BackendRepository{Store: store, CustomerID: "7"}

	require.NoError(t, repo.Clear(context.Background()))
	require.Empty(t, store.snap.Lines)
	require.Equal(t, int64(3), store.snap.Version)
}
