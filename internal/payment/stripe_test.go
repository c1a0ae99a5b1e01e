package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"

	"storefront-api/internal/apperr"
	"storefront-api/internal/cart"
	"storefront-api/internal/webhook"
)

func newTestStripe(t *testing.T, handler http.HandlerFunc, webhookSecret string) *stripeProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewStripeProvider(StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
		StorefrontURL: "https://shop.example.com",
		HTTPClient:    srv.Client(),
		APIURL:        srv.URL,
	}).(*stripeProvider)
	p.newRef = func() string { return "ref-1" }
	return p
}

func TestStripeProvider_CreateSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		calls := 0
		p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "payment", r.PostForm.Get("mode"))
			assert.Equal(t, "ref-1", r.PostForm.Get("client_reference_id"))
			assert.Equal(t, "brl", r.PostForm.Get("line_items[0][price_data][currency]"))
			assert.Equal(t, "5000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
			assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
			assert.Equal(t, "Tee", r.PostForm.Get("line_items[1][price_data][product_data][name]"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "cs_test_123",
				"object": "checkout.session",
				"url": "https://checkout.stripe.com/c/pay/cs_test_123",
				"status": "open",
				"payment_status": "unpaid",
				"amount_total": 20000,
				"currency": "brl",
				"expires_at": 1700000000
			}`))
		}, "")

		sess, err := p.CreateSession(context.Background(), exampleCheckout())
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, "cs_test_123", sess.SessionID)
		assert.Equal(t, StatusPending, sess.Status)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", sess.RedirectURL)
		assert.Equal(t, "200", sess.Amount.String())
		assert.Equal(t, "open", sess.ProviderMetadata["status"])
		assert.Equal(t, "ref-1", sess.ProviderMetadata["reference"])
	})

	t.Run("APIError is not retried", func(t *testing.T) {
		calls := 0
		p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"try later"}}`))
		}, "")

		sess, err := p.CreateSession(context.Background(), exampleCheckout())
		assert.Error(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, 1, calls)
	})

	t.Run("Unrepresentable unit amount never reaches Stripe", func(t *testing.T) {
		calls := 0
		p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
		}, "")

		c := exampleCheckout()
		c.Items[0].UnitPrice = decimal.RequireFromString("100000000000000000")

		sess, err := p.CreateSession(context.Background(), c)
		assert.ErrorIs(t, err, cart.ErrAmountOutOfRange)
		assert.Nil(t, sess)
		assert.Zero(t, calls)
	})
}

func stripeEvent(t *testing.T, id, eventType string, object map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return body
}

func TestStripeProvider_ParseWebhook(t *testing.T) {
	paidSession := map[string]any{
		"id": "cs_test_123", "object": "checkout.session",
		"payment_status": "paid", "amount_total": 20000, "currency": "brl",
	}

	t.Run("Completed and paid maps to payment.succeeded", func(t *testing.T) {
		p := newTestStripe(t, nil, "")

		ev, err := p.ParseWebhook(stripeEvent(t, "evt_1", "checkout.session.completed", paidSession), http.Header{})
		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, webhook.PaymentSucceeded, ev.Type)

		var n Notification
		require.NoError(t, json.Unmarshal(ev.Payload, &n))
		assert.Equal(t, "cs_test_123", n.SessionID)
		assert.Equal(t, "BRL", n.Currency)
		assert.Equal(t, "200", n.Amount.String())
	})

	t.Run("Completed but unpaid stays unhandled", func(t *testing.T) {
		p := newTestStripe(t, nil, "")
		unpaid := map[string]any{"id": "cs_1", "object": "checkout.session", "payment_status": "unpaid"}

		ev, err := p.ParseWebhook(stripeEvent(t, "evt_2", "checkout.session.completed", unpaid), http.Header{})
		require.NoError(t, err)
		assert.Equal(t, webhook.Kind("checkout.session.completed"), ev.Type)
	})

	t.Run("Expired maps to payment.failed", func(t *testing.T) {
		p := newTestStripe(t, nil, "")
		expired := map[string]any{"id": "cs_9", "object": "checkout.session", "status": "expired"}

		ev, err := p.ParseWebhook(stripeEvent(t, "evt_3", "checkout.session.expired", expired), http.Header{})
		require.NoError(t, err)
		assert.Equal(t, webhook.PaymentFailed, ev.Type)

		var n Notification
		require.NoError(t, json.Unmarshal(ev.Payload, &n))
		assert.Equal(t, "cs_9", n.SessionID)
		assert.Equal(t, "checkout.session.expired", n.Reason)
		assert.Nil(t, n.Amount)
	})

	t.Run("Other types pass through", func(t *testing.T) {
		p := newTestStripe(t, nil, "")
		ev, err := p.ParseWebhook(stripeEvent(t, "evt_4", "customer.created", map[string]any{"id": "cus_1"}), http.Header{})
		require.NoError(t, err)
		assert.Equal(t, webhook.Kind("customer.created"), ev.Type)
	})

	t.Run("Valid signature", func(t *testing.T) {
		p := newTestStripe(t, nil, "whsec_test")
		body := stripeEvent(t, "evt_5", "checkout.session.completed", paidSession)
		signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{Payload: body, Secret: "whsec_test"})

		header := http.Header{}
		header.Set(stripeSignatureHeader, signed.Header)

		ev, err := p.ParseWebhook(body, header)
		require.NoError(t, err)
		assert.Equal(t, webhook.PaymentSucceeded, ev.Type)
	})

	t.Run("Bad signature is unauthorized", func(t *testing.T) {
		p := newTestStripe(t, nil, "whsec_test")
		body := stripeEvent(t, "evt_6", "checkout.session.completed", paidSession)
		signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{Payload: body, Secret: "whsec_other"})

		header := http.Header{}
		header.Set(stripeSignatureHeader, signed.Header)

		_, err := p.ParseWebhook(body, header)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("Malformed body", func(t *testing.T) {
		p := newTestStripe(t, nil, "")
		_, err := p.ParseWebhook([]byte(`{not json`), http.Header{})
		assert.ErrorIs(t, err, apperr.ErrMalformedBody)
	})

	t.Run("Missing data", func(t *testing.T) {
		p := newTestStripe(t, nil, "")
		_, err := p.ParseWebhook([]byte(`{"id":"evt_7","type":"checkout.session.completed"}`), http.Header{})

		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
