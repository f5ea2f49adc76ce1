package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kirana-labs/storefront-checkout/internal/catalog"
	"github.com/kirana-labs/storefront-checkout/internal/store"
)

func newTestCache(t *testing.T) *catalog.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return catalog.NewCache(client, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var missed store.Variation
	hit, err := cache.GetJSON(ctx, "variation:1:2", &missed)
	require.NoError(t, err)
	require.False(t, hit)

	stored := store.Variation{ID: 2, Price: "99"}
	require.NoError(t, cache.SetJSON(ctx, "variation:1:2", stored))

	var got store.Variation
	hit, err = cache.GetJSON(ctx, "variation:1:2", &got)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, stored, got)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *catalog.Cache
	ctx := context.Background()

	hit, err := cache.GetJSON(ctx, "k", &struct{}{})
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, cache.SetJSON(ctx, "k", struct{}{}))
}

func TestResolverUsesCache(t *testing.T) {
	cache := newTestCache(t)
	fetcher := &stubFetcher{variations: map[int64]store.Variation{
		101: {ID: 101, Price: "75", Attributes: []store.VariationAttribute{{Name: "Size", Option: "L"}}},
	}}
	r := &catalog.Resolver{Fetcher: fetcher, Cache: cache, Log: zerolog.Nop()}

	product := variableProduct(101)
	_ = r.Resolve(context.Background(), product)
	_ = r.Resolve(context.Background(), product)
	require.Equal(t, 1, fetcherCalls(fetcher), "second resolve should hit the cache")
}

func fetcherCalls(s *stubFetcher) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
