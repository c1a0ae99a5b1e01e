package main

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                config.EnvDevelopment,
		AppPort:               "8080",
		CORSAllowedOrigins:    []string{"https://shop.example.com"},
		StorefrontURL:         "https://shop.example.com",
		FreeShippingThreshold: decimal.NewFromInt(300),
		FreeShippingCarriers:  []string{"PAC", "Jadlog"},
		ERPSyncToken:          "erp-token",
		PaymentWebhookSecret:  "pay-secret",
		StockWebhookSecret:    "stock-secret",
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	deps, err := buildDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	return newServer(cfg, deps)
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetupRouter(t *testing.T) {
	h := newTestServer(t, testConfig())

	t.Run("Health Check", func(t *testing.T) {
		rr := do(h, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("Metrics", func(t *testing.T) {
		do(h, http.MethodGet, "/health", "", nil)
		rr := do(h, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "storefront_http_requests_total")
	})

	t.Run("Create session", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/api/payment/create-session",
			`{"items":[{"id":"a","unitPrice":50,"quantity":2},{"id":"b","unitPrice":100,"quantity":1}]}`, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"amount":200`)
	})

	t.Run("Shipping", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/api/shipping/calculate",
			`{"postalCode":"01310100","items":[{"id":"a","unitPrice":300,"quantity":1}]}`, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"freeShippingEligible":true`)
	})

	t.Run("Wrong method", func(t *testing.T) {
		for _, path := range []string{"/api/payment/create-session", "/api/shipping/calculate", "/api/webhooks/payment", "/api/webhooks/stock", "/api/erp/sync"} {
			rr := do(h, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, path)
			assert.JSONEq(t, `{"error":"method not allowed"}`, rr.Body.String())
		}
	})

	t.Run("Preflight", func(t *testing.T) {
		rr := do(h, http.MethodOptions, "/api/payment/create-session", "", map[string]string{"Origin": "https://shop.example.com"})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "https://shop.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("ERP requires bearer", func(t *testing.T) {
		order := `{"orderId":"o-1","customer":{"name":"Ana","email":"ana@example.com"},"items":[{"id":"a","unitPrice":10,"quantity":1}]}`

		rr := do(h, http.MethodPost, "/api/erp/sync", order, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = do(h, http.MethodPost, "/api/erp/sync", order, map[string]string{"Authorization": "Bearer erp-token"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"success":true`)
	})

	t.Run("Payment webhook", func(t *testing.T) {
		body := `{"id":"evt_1","type":"payment.succeeded","data":{"sessionId":"mock_sess_1"}}`

		rr := do(h, http.MethodPost, "/api/webhooks/payment", body, map[string]string{"X-Webhook-Secret": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotContains(t, rr.Body.String(), "pay-secret")

		rr = do(h, http.MethodPost, "/api/webhooks/payment?secret=pay-secret", body, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"received":true,"type":"payment.succeeded","handled":true}`, rr.Body.String())

		rr = do(h, http.MethodPost, "/api/webhooks/payment?secret=pay-secret", body, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"duplicate":true`)
	})

	t.Run("Stock webhook", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/api/webhooks/stock",
			`{"type":"stock.updated","data":{"sku":"SKU-1","quantity":3}}`,
			map[string]string{"X-Webhook-Secret": "stock-secret"})
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = do(h, http.MethodPost, "/api/webhooks/stock",
			`{"type":"stock.updated","data":{"quantity":3}}`,
			map[string]string{"X-Webhook-Secret": "stock-secret"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBuildDependencies(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown provider fails start-up", func(t *testing.T) {
		cfg := testConfig()
		cfg.ShippingProvider = "correios"

		deps, err := buildDependencies(ctx, cfg)
		assert.Nil(t, deps)
		assert.ErrorIs(t, err, apperr.ErrUnknownProvider)
	})

	t.Run("Missing credentials fail start-up", func(t *testing.T) {
		cfg := testConfig()
		cfg.PaymentProvider = "stripe"

		_, err := buildDependencies(ctx, cfg)
		assert.ErrorIs(t, err, apperr.ErrProviderNotConfigured)
	})

	t.Run("Database collaborator", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		orig := initDBFunc
		defer func() { initDBFunc = orig }()
		initDBFunc = func(cfg *config.Config) (*sql.DB, error) { return mockDB, nil }

		cfg := testConfig()
		cfg.DBHost = "localhost"

		deps, err := buildDependencies(ctx, cfg)
		require.NoError(t, err)

		mock.ExpectExec("UPDATE orders").
			WithArgs("PAID", "cs_1", "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, deps.orders.MarkAsPaid(ctx, "cs_1"))

		mock.ExpectClose()

		deps.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database failure", func(t *testing.T) {
		orig := initDBFunc
		defer func() { initDBFunc = orig }()
		initDBFunc = func(cfg *config.Config) (*sql.DB, error) { return nil, assert.AnError }

		cfg := testConfig()
		cfg.DBHost = "localhost"

		_, err := buildDependencies(ctx, cfg)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestRun(t *testing.T) {
	origStart := startServerFunc
	defer func() { startServerFunc = origStart }()

	var started *http.Server
	startServerFunc = func(ctx context.Context, srv *http.Server) error {
		started = srv
		return nil
	}

	t.Setenv("APP_PORT", "9091")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PAYMENT_PROVIDER", "mock")

	require.NoError(t, run())
	require.NotNil(t, started)
	assert.Equal(t, ":9091", started.Addr)

	t.Setenv("PAYMENT_PROVIDER", "paypal")
	assert.ErrorIs(t, run(), apperr.ErrUnknownProvider)
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	assert.NoError(t, serve(ctx, srv))
}
