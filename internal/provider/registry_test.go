package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
)

type greeter interface{ Name() string }

type named string

func (n named) Name() string { return string(n) }

func newTestRegistry() *Registry[greeter] {
	return NewRegistry[greeter]("greeting", Mock).
		Register(Mock, func(*config.Config) (greeter, error) { return named("mock"), nil }).
		Register("Real", func(cfg *config.Config) (greeter, error) {
			if cfg.StripeSecretKey == "" {
				return nil, NotConfigured("STRIPE_SECRET_KEY")
			}
			return named("real"), nil
		})
}

func TestRegistry_Resolve(t *testing.T) {
	reg := newTestRegistry()

	t.Run("Empty key falls back to default", func(t *testing.T) {
		impl, err := reg.Resolve("", &config.Config{})
		require.NoError(t, err)
		assert.Equal(t, "mock", impl.Name())
	})

	t.Run("Keys are case-insensitive", func(t *testing.T) {
		impl, err := reg.Resolve("  REAL ", &config.Config{StripeSecretKey: "sk"})
		require.NoError(t, err)
		assert.Equal(t, "real", impl.Name())
	})

	t.Run("Unknown key fails closed", func(t *testing.T) {
		impl, err := reg.Resolve("paypal", &config.Config{})
		assert.Nil(t, impl)
		assert.True(t, errors.Is(err, apperr.ErrUnknownProvider))
		assert.Contains(t, err.Error(), "paypal")
		assert.Contains(t, err.Error(), "mock, real")
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, err := reg.Resolve("real", &config.Config{})
		assert.True(t, errors.Is(err, apperr.ErrProviderNotConfigured))
		assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	})
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := newTestRegistry()
	assert.Panics(t, func() {
		reg.Register("MOCK", func(*config.Config) (greeter, error) { return named("again"), nil })
	})
}

func TestSimulate(t *testing.T) {
	t.Run("Zero delay", func(t *testing.T) {
		assert.NoError(t, Simulate(context.Background(), 0))
	})

	t.Run("Waits", func(t *testing.T) {
		start := time.Now()
		assert.NoError(t, Simulate(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Simulate(ctx, time.Hour)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
