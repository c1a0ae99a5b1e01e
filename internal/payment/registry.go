package payment

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront-api/internal/auth"
	"storefront-api/internal/config"
	"storefront-api/internal/provider"
)

func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("payment", provider.Mock).
		Register(provider.Mock, newMockFromConfig).
		Register(stripeName, newStripeFromConfig)
}

func newMockFromConfig(cfg *config.Config) (Provider, error) {
	signer := auth.NewCheckoutSigner(cfg.CheckoutSigningKey, checkoutTokenTTL)
	return NewMockProvider(cfg.StorefrontURL, signer, cfg.MockLatency), nil
}

func newStripeFromConfig(cfg *config.Config) (Provider, error) {
	if cfg.StripeSecretKey == "" {
		return nil, provider.NotConfigured("STRIPE_SECRET_KEY")
	}
	return NewStripeProvider(StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		StorefrontURL: cfg.StorefrontURL,
		HTTPClient: &http.Client{
			Timeout:   cfg.ProviderTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}), nil
}
