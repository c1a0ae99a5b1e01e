package main

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/erp"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/middleware"
	"storefront-api/internal/order"
	"storefront-api/internal/payment"
	"storefront-api/internal/shipping"
	"storefront-api/internal/stock"
	"storefront-api/internal/webhook"
)

const dedupeSweepInterval = 10 * time.Minute

type dependencies struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter

	payment  payment.Provider
	shipping shipping.Provider
	erp      erp.Provider

	orders order.Repository
	stock  stock.Repository
	dedupe webhook.IdempotencyStore

	closers []func() error
}

// buildDependencies resolves every provider and collaborator once. Any
// misconfiguration is returned so the process never starts half-wired.
func buildDependencies(ctx context.Context, cfg *config.Config) (deps *dependencies, err error) {
	deps = &dependencies{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			deps.Close()
			deps = nil
		}
	}()

	deps.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.metrics = metrics.New(deps.registry)

	if deps.payment, err = payment.NewRegistry().Resolve(cfg.PaymentProvider, cfg); err != nil {
		return deps, err
	}
	if deps.shipping, err = shipping.NewRegistry().Resolve(cfg.ShippingProvider, cfg); err != nil {
		return deps, err
	}
	if deps.erp, err = erp.NewRegistry().Resolve(cfg.ERPProvider, cfg); err != nil {
		return deps, err
	}

	if cfg.DatabaseEnabled() {
		database, err := initDBFunc(cfg)
		if err != nil {
			return deps, err
		}
		deps.closers = append(deps.closers, database.Close)
		deps.orders = order.NewRepository(database)
		deps.stock = stock.NewRepository(database)
	} else {
		logger.L().Warn("DB_HOST not set, order and stock updates are only logged")
		deps.orders = order.NewLogRepository()
		deps.stock = stock.NewLogRepository()
	}

	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisIdempotencyStore(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return deps, err
		}
		deps.closers = append(deps.closers, store.Close)
		deps.dedupe = store
	} else {
		store := cache.NewInMemoryIdempotencyStore(dedupeSweepInterval)
		deps.closers = append(deps.closers, store.Close)
		deps.dedupe = store
	}

	if cfg.RateLimitEnabled {
		deps.limiter = middleware.NewRateLimiter()
		deps.closers = append(deps.closers, func() error {
			deps.limiter.Close()
			return nil
		})
	}

	if cfg.WebhookRelaxed() {
		logger.L().Warn("WEBHOOK_ALLOW_INSECURE is set, webhook secrets are not checked")
	}

	return deps, nil
}

func (d *dependencies) Close() {
	if d == nil {
		return
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.L().Warn("error releasing resources", zap.Error(err))
	}
}
