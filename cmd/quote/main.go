package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kirana-labs/storefront-checkout/internal/cart"
	"github.com/kirana-labs/storefront-checkout/internal/catalog"
	"github.com/kirana-labs/storefront-checkout/internal/checkout"
	"github.com/kirana-labs/storefront-checkout/internal/config"
	"github.com/kirana-labs/storefront-checkout/internal/gateway"
	"github.com/kirana-labs/storefront-checkout/internal/obs"
	"github.com/kirana-labs/storefront-checkout/internal/shipping"
	"github.com/kirana-labs/storefront-checkout/internal/store"
)

type cartFile struct {
	Lines   []cartFileLine `json:"lines"`
	Coupons []cart.Coupon  `json:"coupons"`
}

// cartFileLine extends a cart line with an optional trait/option selection
// for variable products, resolved against the catalog before quoting.
type cartFileLine struct {
	cart.Line
	Trait  string `json:"trait,omitempty"`
	Option string `json:"option,omitempty"`
}

type settlementFile struct {
	CustomerID         int64            `json:"customerId"`
	Billing            checkout.Address `json:"billing"`
	Shipping           checkout.Address `json:"shipping"`
	PaymentMethod      string           `json:"paymentMethod"`
	PaymentMethodTitle string           `json:"paymentMethodTitle"`
	BuyNow             bool             `json:"buyNow"`
}

func main() {
	cartPath := flag.String("cart", "", "path to a cart JSON file; empty loads the persisted cart")
	customerID := flag.String("customer", "", "customer id for the persisted cart")
	placePath := flag.String("place", "", "path to a settlement JSON file; when set the order is placed")
	flag.Parse()

	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	if err := obs.RegisterDomainMetrics("storefront", nil); err != nil {
		logger.Fatal().Err(err).Msg("register metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if endpoint := os.Getenv("OTLP_ENDPOINT"); endpoint != "" {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName: "storefront-checkout",
			Endpoint:    endpoint,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	client := store.New(cfg.StoreBaseURL, cfg.StoreConsumerKey, cfg.StoreConsumerSecret, cfg.HTTPTimeout, cfg.HTTPMaxAttempts, logger)

	var cache *catalog.Cache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
		cache = catalog.NewCache(rdb, cfg.CatalogCacheTTL)
	}
	resolver := &catalog.Resolver{Fetcher: client, Cache: cache, Log: logger}

	var repo cart.Repository
	if *customerID != "" {
		repo = &cart.BackendRepository{Store: client, CustomerID: *customerID}
	}

	lines, coupons, err := loadCart(ctx, *cartPath, repo)
	if err != nil {
		logger.Fatal().Err(err).Msg("load cart")
	}
	pricedLines, err := priceLines(ctx, resolver, client, lines)
	if err != nil {
		logger.Fatal().Err(err).Msg("price cart lines")
	}

	svc := &checkout.Service{
		Backend:      client,
		Cart:         repo,
		Evaluator:    shipping.Evaluator{Log: logger, FreeShippingThreshold: cfg.FreeShippingThreshold},
		Validate:     checkout.NewValidator(),
		Log:          logger,
		Currency:     cfg.Currency,
		GatewayKeyID: cfg.RazorpayKeyID,
	}

	if *placePath == "" {
		q := svc.Quote(ctx, pricedLines, coupons)
		printJSON(q)
		return
	}

	var settle settlementFile
	if err := readJSONFile(*placePath, &settle); err != nil {
		logger.Fatal().Err(err).Msg("load settlement file")
	}

	if gateways, err := client.PaymentGateways(ctx); err != nil {
		logger.Warn().Err(err).Msg("list payment gateways")
	} else {
		enabled := false
		for _, g := range gateways {
			if g.Enabled && strings.EqualFold(g.ID, settle.PaymentMethod) {
				enabled = true
				if settle.PaymentMethodTitle == "" {
					settle.PaymentMethodTitle = g.Title
				}
				break
			}
		}
		if !enabled {
			logger.Fatal().Str("method", settle.PaymentMethod).Msg("payment method not enabled on the store")
		}
	}

	if !strings.EqualFold(settle.PaymentMethod, checkout.MethodCOD) {
		rz := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
		cb := &gateway.CallbackServer{
			Addr:     cfg.CallbackAddr,
			Verifier: rz,
			Log:      logger,
			CheckoutURL: func(url string) {
				fmt.Fprintln(os.Stderr, "complete the payment at:", url)
			},
		}
		if err := cb.Start(); err != nil {
			logger.Fatal().Err(err).Msg("start callback server")
		}
		defer func() {
			if err := cb.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("shutdown callback server")
			}
		}()
		svc.Gateway = rz
		svc.Checkout = cb
	}

	res, err := svc.Place(ctx, checkout.Input{
		CustomerID:         settle.CustomerID,
		Lines:              pricedLines,
		Coupons:            coupons,
		Billing:            settle.Billing,
		Shipping:           settle.Shipping,
		PaymentMethod:      settle.PaymentMethod,
		PaymentMethodTitle: settle.PaymentMethodTitle,
		BuyNow:             settle.BuyNow,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("settlement failed")
	}
	printJSON(res)
}

func loadCart(ctx context.Context, path string, repo cart.Repository) ([]cartFileLine, []cart.Coupon, error) {
	if path != "" {
		var cf cartFile
		if err := readJSONFile(path, &cf); err != nil {
			return nil, nil, err
		}
		return cf.Lines, cf.Coupons, nil
	}
	if repo == nil {
		return nil, nil, fmt.Errorf("either -cart or -customer is required")
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	lines := make([]cartFileLine, len(snap.Lines))
	for i, l := range snap.Lines {
		lines[i] = cartFileLine{Line: l}
	}
	return lines, snap.Coupons, nil
}

// priceLines fills in unit prices for lines the cart file left unpriced,
// resolving variable products (and any trait/option selection) through the
// catalog resolver.
func priceLines(ctx context.Context, resolver *catalog.Resolver, client *store.Client, lines []cartFileLine) ([]cart.Line, error) {
	out := make([]cart.Line, len(lines))
	for i, l := range lines {
		if l.UnitPrice > 0 {
			out[i] = l.Line
			continue
		}
		id, err := strconv.ParseInt(l.ProductID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: product id %q: %w", i, l.ProductID, err)
		}
		product, err := client.GetProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("line %d: fetch product %d: %w", i, id, err)
		}
		var priced cart.Line
		if l.Option != "" {
			var ok bool
			priced, ok = resolver.LineForOption(ctx, product, l.Trait, l.Option)
			if !ok {
				return nil, fmt.Errorf("line %d: product %d has no purchasable option %q", i, id, l.Option)
			}
		} else {
			priced = resolver.DefaultLine(ctx, product)
		}
		if l.Quantity > 0 {
			priced.Quantity = l.Quantity
		}
		if len(l.SupportedMethods) > 0 {
			priced.SupportedMethods = l.SupportedMethods
		}
		out[i] = priced
	}
	return out, nil
}

func readJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Error().Err(err).Msg("encode output")
	}
}
