package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv                string
	StoreBaseURL          string
	StoreConsumerKey      string
	StoreConsumerSecret   string
	RazorpayKeyID         string
	RazorpayKeySecret     string
	Currency              string
	FreeShippingThreshold float64
	RedisURL              string
	CatalogCacheTTL       time.Duration
	HTTPTimeout           time.Duration
	HTTPMaxAttempts       int
	CallbackAddr          string
	LogLevel              string
	LogFormat             string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:                valueOrDefault(k.String("APP_ENV"), "development"),
		StoreBaseURL:          strings.TrimRight(strings.TrimSpace(k.String("STORE_BASE_URL")), "/"),
		StoreConsumerKey:      k.String("STORE_CONSUMER_KEY"),
		StoreConsumerSecret:   k.String("STORE_CONSUMER_SECRET"),
		RazorpayKeyID:         k.String("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     k.String("RAZORPAY_KEY_SECRET"),
		Currency:              valueOrDefault(k.String("CURRENCY"), "INR"),
		FreeShippingThreshold: parseFloat(k.String("FREE_SHIPPING_THRESHOLD"), 999),
		RedisURL:              strings.TrimSpace(k.String("REDIS_URL")),
		CatalogCacheTTL:       parseDuration(k.String("CATALOG_CACHE_TTL"), "10m"),
		HTTPTimeout:           parseDuration(k.String("HTTP_TIMEOUT"), "15s"),
		HTTPMaxAttempts:       parseInt(k.String("HTTP_MAX_ATTEMPTS"), 3),
		CallbackAddr:          valueOrDefault(k.String("CALLBACK_ADDR"), "127.0.0.1:0"),
		LogLevel:              valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:             valueOrDefault(k.String("LOG_FORMAT"), "json"),
	}

	if cfg.StoreBaseURL == "" {
		return nil, errors.New("STORE_BASE_URL is required")
	}
	if cfg.StoreConsumerKey == "" || cfg.StoreConsumerSecret == "" {
		return nil, errors.New("STORE_CONSUMER_KEY and STORE_CONSUMER_SECRET are required")
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(envs map[string]string) (*Config, error) {
	original := make(map[string]string, len(envs))
	for key := range envs {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, envs[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
