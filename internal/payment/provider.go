package payment

import (
	"context"
	"net/http"

	"storefront-api/internal/webhook"
)

// Provider is a payment gateway. Exactly one is active per process, chosen by
// PAYMENT_PROVIDER.
type Provider interface {
	Name() string
	CreateSession(ctx context.Context, c Checkout) (*Session, error)
	// ParseWebhook normalizes a gateway delivery into a payment.* event.
	ParseWebhook(body []byte, header http.Header) (webhook.Event, error)
}
