package erp

import (
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront-api/internal/config"
	"storefront-api/internal/provider"
)

func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("erp", provider.Mock).
		Register(provider.Mock, func(cfg *config.Config) (Provider, error) {
			return NewMockProvider(cfg.MockLatency), nil
		}).
		Register(blingName, newBlingFromConfig)
}

func newBlingFromConfig(cfg *config.Config) (Provider, error) {
	if cfg.BlingAPIToken == "" {
		return nil, provider.NotConfigured("BLING_API_TOKEN")
	}

	client := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}).
		SetBaseURL(cfg.BlingBaseURL).
		SetAuthToken(cfg.BlingAPIToken).
		SetTimeout(cfg.ProviderTimeout)

	return NewBlingProvider(client), nil
}
