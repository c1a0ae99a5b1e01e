package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	AppEnv  string
	AppPort string

	CORSAllowedOrigins []string
	StorefrontURL      string
	RateLimitEnabled   bool

	// Provider selection keys, resolved once at start-up.
	PaymentProvider  string
	ShippingProvider string
	ERPProvider      string

	MockLatency     time.Duration
	ProviderTimeout time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSigningKey  string

	MelhorEnvioToken      string
	MelhorEnvioBaseURL    string
	OriginPostalCode      string
	FreeShippingThreshold decimal.Decimal
	FreeShippingCarriers  []string

	BlingAPIToken string
	BlingBaseURL  string
	ERPSyncToken  string

	PaymentWebhookSecret string
	StockWebhookSecret   string
	WebhookAllowInsecure bool

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", EnvDevelopment),
		AppPort: getEnv("APP_PORT", "8080"),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		StorefrontURL:      strings.TrimRight(getEnv("STOREFRONT_URL", "http://localhost:3000"), "/"),

		PaymentProvider:  os.Getenv("PAYMENT_PROVIDER"),
		ShippingProvider: os.Getenv("SHIPPING_PROVIDER"),
		ERPProvider:      os.Getenv("ERP_PROVIDER"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		CheckoutSigningKey:  os.Getenv("CHECKOUT_SIGNING_KEY"),

		MelhorEnvioToken:     os.Getenv("MELHOR_ENVIO_TOKEN"),
		MelhorEnvioBaseURL:   strings.TrimRight(getEnv("MELHOR_ENVIO_BASE_URL", "https://www.melhorenvio.com.br"), "/"),
		OriginPostalCode:     os.Getenv("SHIPPING_ORIGIN_POSTAL_CODE"),
		FreeShippingCarriers: splitList(getEnv("FREE_SHIPPING_CARRIERS", "PAC,Jadlog")),

		BlingAPIToken: os.Getenv("BLING_API_TOKEN"),
		BlingBaseURL:  strings.TrimRight(getEnv("BLING_BASE_URL", "https://api.bling.com.br/Api/v3"), "/"),
		ERPSyncToken:  os.Getenv("ERP_SYNC_TOKEN"),

		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		StockWebhookSecret:   os.Getenv("STOCK_WEBHOOK_SECRET"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.MockLatency, err = parseDuration("MOCK_LATENCY", 0); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = parseDuration("PROVIDER_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.WebhookAllowInsecure, err = parseBool("WEBHOOK_ALLOW_INSECURE", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled, err = parseBool("RATE_LIMIT_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	threshold := getEnv("FREE_SHIPPING_THRESHOLD", "300")
	cfg.FreeShippingThreshold, err = decimal.NewFromString(threshold)
	if err != nil || cfg.FreeShippingThreshold.IsNegative() {
		return nil, fmt.Errorf("config: invalid FREE_SHIPPING_THRESHOLD %q", threshold)
	}

	if _, err := strconv.ParseUint(cfg.AppPort, 10, 16); err != nil {
		return nil, fmt.Errorf("config: invalid APP_PORT %q", cfg.AppPort)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// DatabaseEnabled reports whether the optional Postgres collaborator is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

// WebhookRelaxed reports whether unauthenticated webhooks may be accepted.
// The relaxation never applies in production.
func (c *Config) WebhookRelaxed() bool {
	return c.WebhookAllowInsecure && !c.IsProduction()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return b, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return n, nil
}
