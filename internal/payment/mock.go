package payment

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"storefront-api/internal/auth"
	"storefront-api/internal/provider"
	"storefront-api/internal/webhook"
)

const (
	mockSessionPrefix = "mock_sess_"
	checkoutTokenTTL  = 30 * time.Minute
)

type mockProvider struct {
	storefrontURL string
	signer        *auth.CheckoutSigner
	latency       time.Duration
	newID         func() string
}

func NewMockProvider(storefrontURL string, signer *auth.CheckoutSigner, latency time.Duration) Provider {
	return &mockProvider{
		storefrontURL: storefrontURL,
		signer:        signer,
		latency:       latency,
		newID:         func() string { return uuid.NewString() },
	}
}

func (p *mockProvider) Name() string { return provider.Mock }

func (p *mockProvider) CreateSession(ctx context.Context, c Checkout) (*Session, error) {
	if err := provider.Simulate(ctx, p.latency); err != nil {
		return nil, err
	}

	id := mockSessionPrefix + p.newID()
	amount := c.Amount.StringFixed(2)

	q := url.Values{}
	q.Set("session", id)
	if p.signer.Enabled() {
		token, err := p.signer.Sign(id, amount, c.Currency)
		if err != nil {
			return nil, err
		}
		q.Set("token", token)
	}

	return &Session{
		SessionID:   id,
		Status:      StatusPending,
		Amount:      c.Amount,
		Currency:    c.Currency,
		RedirectURL: p.storefrontURL + "/checkout/mock?" + q.Encode(),
		ProviderMetadata: map[string]any{
			"provider":  provider.Mock,
			"itemCount": len(c.Items),
			"signed":    p.signer.Enabled(),
		},
	}, nil
}

// ParseWebhook accepts the generic {id, type, data} envelope.
func (p *mockProvider) ParseWebhook(body []byte, header http.Header) (webhook.Event, error) {
	return webhook.ParseJSON(body, header)
}
