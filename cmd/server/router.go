package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront-api/internal/config"
	"storefront-api/internal/erp"
	"storefront-api/internal/logger"
	"storefront-api/internal/middleware"
	"storefront-api/internal/payment"
	"storefront-api/internal/shipping"
	"storefront-api/internal/stock"
	"storefront-api/internal/transport"
	"storefront-api/internal/webhook"
)

const serviceName = "storefront-api"

// newServer wraps the router with the cross-cutting middleware. Preflights
// are answered by CORS before rate limiting or routing.
func newServer(cfg *config.Config, deps *dependencies) http.Handler {
	var h http.Handler = middleware.Logging(deps.metrics)(setupRouter(cfg, deps))
	if deps.limiter != nil {
		h = deps.limiter.Middleware(h)
	}
	h = middleware.CORS(cfg.CORSAllowedOrigins)(h)
	h = logger.RequestIDMiddleware(h)
	return otelhttp.NewHandler(h, serviceName)
}

func setupRouter(cfg *config.Config, deps *dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	paymentHandler := payment.NewHandler(payment.NewService(deps.payment, deps.metrics))
	mux.Handle("/api/payment/create-session", transport.PostOnly(paymentHandler.CreateSession))

	shippingPolicy := shipping.FreeShippingPolicy{
		Threshold: cfg.FreeShippingThreshold,
		Carriers:  cfg.FreeShippingCarriers,
	}
	shippingHandler := shipping.NewHandler(shipping.NewService(deps.shipping, shippingPolicy, deps.metrics))
	mux.Handle("/api/shipping/calculate", transport.PostOnly(shippingHandler.Calculate))

	erpHandler := erp.NewHandler(erp.NewService(deps.erp, deps.metrics))
	erpAuth := middleware.RequireBearer(cfg.ERPSyncToken)
	mux.Handle("/api/erp/sync", transport.PostOnly(erpAuth(http.HandlerFunc(erpHandler.Sync)).ServeHTTP))

	relaxed := cfg.WebhookRelaxed()
	dedupe := webhook.WithIdempotencyStore(deps.dedupe, 0)

	paymentHook := webhook.NewHandler("payment",
		webhook.NewAuthenticator(cfg.PaymentWebhookSecret, relaxed),
		deps.payment.ParseWebhook,
		payment.NewDispatcher(deps.orders),
		deps.metrics,
		dedupe,
	)
	mux.Handle("/api/webhooks/payment", transport.PostOnly(paymentHook.ServeHTTP))

	stockHook := webhook.NewHandler("stock",
		webhook.NewAuthenticator(cfg.StockWebhookSecret, relaxed),
		webhook.ParseJSON,
		stock.NewDispatcher(deps.stock),
		deps.metrics,
		dedupe,
	)
	mux.Handle("/api/webhooks/stock", transport.PostOnly(stockHook.ServeHTTP))

	return mux
}
