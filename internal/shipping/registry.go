package shipping

import (
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront-api/internal/config"
	"storefront-api/internal/provider"
	"storefront-api/internal/validation"
)

func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("shipping", provider.Mock).
		Register(provider.Mock, func(cfg *config.Config) (Provider, error) {
			return NewMockProvider(cfg.MockLatency), nil
		}).
		Register(melhorEnvioName, newMelhorEnvioFromConfig)
}

func newMelhorEnvioFromConfig(cfg *config.Config) (Provider, error) {
	if cfg.MelhorEnvioToken == "" {
		return nil, provider.NotConfigured("MELHOR_ENVIO_TOKEN")
	}
	if !validation.IsPostalCode(cfg.OriginPostalCode) {
		return nil, provider.NotConfigured("SHIPPING_ORIGIN_POSTAL_CODE")
	}

	client := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}).
		SetBaseURL(cfg.MelhorEnvioBaseURL).
		SetAuthToken(cfg.MelhorEnvioToken).
		SetTimeout(cfg.ProviderTimeout).
		SetHeader("User-Agent", "storefront-api")

	return NewMelhorEnvioProvider(client, cfg.OriginPostalCode), nil
}
