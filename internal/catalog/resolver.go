// Package catalog resolves effective prices for catalog products, including
// per-variation price maps for variable products and the rendered
// price-range fallback.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/money"
	"github.com/kirana-labs/storefront-checkout/internal/pricing"
	"github.com/kirana-labs/storefront-checkout/internal/store"
)

// VariationFetcher is the slice of the backend client the resolver needs.
type VariationFetcher interface {
	GetVariation(ctx context.Context, productID, variationID int64) (store.Variation, error)
}

// OptionPrice is the resolved pricing for one variation option.
type OptionPrice struct {
	VariationID   int64
	Price         float64
	OriginalPrice float64
	DiscountPct   *int
}

// PriceMap holds per-option pricing for a variable product, keyed by each
// variation's first attribute option. Order preserves the backend's
// variation list order, which decides the default selection.
type PriceMap struct {
	Options map[string]OptionPrice
	Order   []string
}

// Default returns the first populated option in original list order. This is
// deliberately not a best-price selection.
func (pm PriceMap) Default() (string, OptionPrice, bool) {
	if len(pm.Order) == 0 {
		return "", OptionPrice{}, false
	}
	key := pm.Order[0]
	return key, pm.Options[key], true
}

// Resolver fetches variation details and builds price maps.
type Resolver struct {
	Fetcher     VariationFetcher
	Cache       *Cache
	Log         zerolog.Logger
	Concurrency int
}

// Resolve fetches every variation of the product concurrently and builds
// its price map. Results are re-ordered by original variation index before
// map assembly so the default selection matches a sequential walk of the
// backend's list. Per-variation failures are logged and skipped; a complete
// failure yields an empty map and the caller falls back to range or base
// pricing.
func (r *Resolver) Resolve(ctx context.Context, product store.Product) PriceMap {
	pm := PriceMap{Options: make(map[string]OptionPrice, len(product.Variations))}
	if len(product.Variations) == 0 {
		return pm
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	results := make([]*store.Variation, len(product.Variations))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, variationID := range product.Variations {
		wg.Add(1)
		go func(idx int, id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			v, err := r.fetch(ctx, product.ID, id)
			if err != nil {
				r.Log.Warn().Err(err).Int64("product_id", product.ID).Int64("variation_id", id).Msg("variation_skip")
				return
			}
			results[idx] = &v
		}(i, variationID)
	}
	wg.Wait()

	for _, v := range results {
		if v == nil {
			continue
		}
		option := firstOption(v.Attributes)
		if option == "" {
			continue
		}
		if _, exists := pm.Options[option]; exists {
			continue
		}
		sale := money.ParseFloat(coalesce(v.SalePrice, v.Price), 0)
		regular := money.ParseFloat(coalesce(v.RegularPrice, v.Price), 0)
		pm.Options[option] = OptionPrice{
			VariationID:   v.ID,
			Price:         sale,
			OriginalPrice: regular,
			DiscountPct:   pricing.PercentDiscount(regular, sale),
		}
		pm.Order = append(pm.Order, option)
	}
	return pm
}

// DefaultLine builds the cart line for a product: the default variation for
// a variable product, or the product's own prices for a simple one. When
// variation data is unavailable the rendered price range is consulted
// before the direct price fields.
func (r *Resolver) DefaultLine(ctx context.Context, product store.Product) cart.Line {
	line := cart.Line{
		ProductID: strconv.FormatInt(product.ID, 10),
		Name:      product.Name,
		Quantity:  1,
		TaxClass:  normaliseTaxClass(product.TaxClass),
		TaxStatus: product.TaxStatus,
	}
	if strings.EqualFold(product.Type, "variable") {
		pm := r.Resolve(ctx, product)
		if _, opt, ok := pm.Default(); ok {
			line.ProductID = strconv.FormatInt(opt.VariationID, 10)
			line.UnitPrice = opt.Price
			line.OriginalUnitPrice = opt.OriginalPrice
			return line
		}
		if rng, ok := ParsePriceRange(product.PriceHTML); ok {
			line.UnitPrice = rng.Min
			line.OriginalUnitPrice = rng.Max
			return line
		}
	}
	line.UnitPrice = money.ParseFloat(coalesce(product.SalePrice, product.Price), 0)
	line.OriginalUnitPrice = money.ParseFloat(coalesce(product.RegularPrice, product.Price), line.UnitPrice)
	return line
}

// LineForOption builds the cart line for a chosen attribute option of a
// variable product. The trait names the attribute family, e.g. "color" or
// "size". Reports false when the product has no matching attribute, does
// not offer the option, or no variation carries it.
func (r *Resolver) LineForOption(ctx context.Context, product store.Product, trait, option string) (cart.Line, bool) {
	attr, ok := AttributeForTrait(product.Attributes, trait)
	if !ok {
		return cart.Line{}, false
	}
	offered := false
	for _, o := range attr.Options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(option)) {
			option = strings.TrimSpace(o)
			offered = true
			break
		}
	}
	if !offered {
		return cart.Line{}, false
	}
	pm := r.Resolve(ctx, product)
	for _, key := range pm.Order {
		if !strings.EqualFold(key, option) {
			continue
		}
		opt := pm.Options[key]
		return cart.Line{
			ProductID:         strconv.FormatInt(opt.VariationID, 10),
			Name:              product.Name,
			UnitPrice:         opt.Price,
			OriginalUnitPrice: opt.OriginalPrice,
			Quantity:          1,
			TaxClass:          normaliseTaxClass(product.TaxClass),
			TaxStatus:         product.TaxStatus,
		}, true
	}
	return cart.Line{}, false
}

func (r *Resolver) fetch(ctx context.Context, productID, variationID int64) (store.Variation, error) {
	key := fmt.Sprintf("variation:%d:%d", productID, variationID)
	var cached store.Variation
	if hit, err := r.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	if r.Fetcher == nil {
		return store.Variation{}, fmt.Errorf("catalog: no variation fetcher configured")
	}
	v, err := r.Fetcher.GetVariation(ctx, productID, variationID)
	if err != nil {
		return store.Variation{}, err
	}
	if err := r.Cache.SetJSON(ctx, key, v); err != nil {
		r.Log.Debug().Err(err).Str("key", key).Msg("cache_set_failed")
	}
	return v, nil
}

// firstOption returns the variation's differentiating trait: the option
// value of its first attribute. Variations without attributes or options
// produce no map entry.
func firstOption(attrs []store.VariationAttribute) string {
	if len(attrs) == 0 {
		return ""
	}
	return strings.TrimSpace(attrs[0].Option)
}

func normaliseTaxClass(class string) string {
	if strings.TrimSpace(class) == "" {
		return cart.DefaultTaxClass
	}
	return class
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
