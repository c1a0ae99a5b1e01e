// Package provider resolves the configured implementation of an external
// integration (payment gateway, shipping carrier, ERP).
//
// One policy applies to every capability: an empty key resolves to the
// registry default with a warning, an unknown key is ErrUnknownProvider, and a
// factory that lacks credentials returns ErrProviderNotConfigured. All three are
// resolved once at start-up so misconfiguration stops the process.
package provider

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/logger"
)

const Mock = "mock"

type Factory[T any] func(cfg *config.Config) (T, error)

type Registry[T any] struct {
	capability string
	fallback   string
	factories  map[string]Factory[T]
}

func NewRegistry[T any](capability, fallback string) *Registry[T] {
	return &Registry[T]{
		capability: capability,
		fallback:   normalize(fallback),
		factories:  make(map[string]Factory[T]),
	}
}

// Register panics on duplicates; registration happens during wiring only.
func (r *Registry[T]) Register(name string, f Factory[T]) *Registry[T] {
	key := normalize(name)
	if _, exists := r.factories[key]; exists {
		panic(fmt.Sprintf("%s provider %q already registered", r.capability, key))
	}
	r.factories[key] = f
	return r
}

func (r *Registry[T]) Resolve(key string, cfg *config.Config) (T, error) {
	var zero T

	name := normalize(key)
	if name == "" {
		logger.L().Warn("no provider configured, using default",
			zap.String("capability", r.capability),
			zap.String("provider", r.fallback),
		)
		name = r.fallback
	}

	factory, ok := r.factories[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s provider %q (registered: %s)",
			apperr.ErrUnknownProvider, r.capability, name, strings.Join(r.Names(), ", "))
	}

	impl, err := factory(cfg)
	if err != nil {
		return zero, fmt.Errorf("%s provider %q: %w", r.capability, name, err)
	}

	logger.L().Info("provider resolved",
		zap.String("capability", r.capability),
		zap.String("provider", name),
	)
	return impl, nil
}

func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NotConfigured builds the error a factory returns when credentials are missing.
func NotConfigured(setting string) error {
	return fmt.Errorf("%w: %s is not set", apperr.ErrProviderNotConfigured, setting)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
