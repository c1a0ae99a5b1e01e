package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
		t.Setenv("STOREFRONT_URL", "https://shop.example.com/")
		t.Setenv("PAYMENT_PROVIDER", "stripe")
		t.Setenv("SHIPPING_PROVIDER", "melhorenvio")
		t.Setenv("ERP_PROVIDER", "bling")
		t.Setenv("MOCK_LATENCY", "250ms")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "450.50")
		t.Setenv("FREE_SHIPPING_CARRIERS", "PAC")
		t.Setenv("ERP_SYNC_TOKEN", "erp-token")
		t.Setenv("WEBHOOK_ALLOW_INSECURE", "true")
		t.Setenv("REDIS_DB", "2")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.AppEnv)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, "https://shop.example.com", cfg.StorefrontURL)
		assert.Equal(t, "stripe", cfg.PaymentProvider)
		assert.Equal(t, "melhorenvio", cfg.ShippingProvider)
		assert.Equal(t, "bling", cfg.ERPProvider)
		assert.Equal(t, 250*time.Millisecond, cfg.MockLatency)
		assert.True(t, cfg.FreeShippingThreshold.Equal(decimal.RequireFromString("450.50")))
		assert.Equal(t, []string{"PAC"}, cfg.FreeShippingCarriers)
		assert.Equal(t, "erp-token", cfg.ERPSyncToken)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.True(t, cfg.IsProduction())
		assert.False(t, cfg.WebhookRelaxed(), "relaxation never applies in production")
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "")
		t.Setenv("FREE_SHIPPING_CARRIERS", "")
		t.Setenv("PROVIDER_TIMEOUT", "")
		t.Setenv("DB_HOST", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, EnvDevelopment, cfg.AppEnv)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.True(t, cfg.FreeShippingThreshold.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, []string{"PAC", "Jadlog"}, cfg.FreeShippingCarriers)
		assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
		assert.False(t, cfg.DatabaseEnabled())
	})

	t.Run("Relaxed outside production", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("WEBHOOK_ALLOW_INSECURE", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.WebhookRelaxed())
	})

	invalid := map[string][2]string{
		"Bad duration":  {"MOCK_LATENCY", "soon"},
		"Bad bool":      {"WEBHOOK_ALLOW_INSECURE", "maybe"},
		"Bad threshold": {"FREE_SHIPPING_THRESHOLD", "-1"},
		"Bad port":      {"APP_PORT", "http"},
		"Bad redis db":  {"REDIS_DB", "one"},
	}
	for name, kv := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])

			cfg, err := LoadConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), kv[0])
		})
	}
}
