package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"

	"storefront-api/internal/apperr"
	"storefront-api/internal/cart"
	"storefront-api/internal/webhook"
)

const (
	stripeName            = "stripe"
	stripeSignatureHeader = "Stripe-Signature"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	StorefrontURL string
	HTTPClient    *http.Client
	// APIURL overrides https://api.stripe.com.
	APIURL string
}

type stripeProvider struct {
	api           *client.API
	webhookSecret string
	storefrontURL string
	newRef        func() string
}

func NewStripeProvider(cfg StripeConfig) Provider {
	backendCfg := &stripe.BackendConfig{
		HTTPClient: cfg.HTTPClient,
		// A failed session is reported to the shopper, never retried.
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	backends := &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
	}

	return &stripeProvider{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		storefrontURL: cfg.StorefrontURL,
		newRef:        func() string { return uuid.NewString() },
	}
}

func (p *stripeProvider) Name() string { return stripeName }

func (p *stripeProvider) CreateSession(ctx context.Context, c Checkout) (*Session, error) {
	ref := p.newRef()
	currency := strings.ToLower(c.Currency)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.storefrontURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(p.storefrontURL + "/checkout/cancel"),
		ClientReferenceID: stripe.String(ref),
	}
	params.Context = ctx
	if c.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(c.CustomerEmail)
	}

	for _, it := range c.Items {
		unitAmount, err := cart.MinorUnits(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("price item %s: %w", it.ID, err)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(it.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(unitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.DisplayName()),
				},
			},
		})
	}
	params.AddMetadata("reference", ref)

	cs, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &Session{
		SessionID:   cs.ID,
		Status:      StatusPending,
		Amount:      c.Amount,
		Currency:    c.Currency,
		RedirectURL: cs.URL,
		ProviderMetadata: map[string]any{
			"provider":      stripeName,
			"reference":     ref,
			"status":        string(cs.Status),
			"paymentStatus": string(cs.PaymentStatus),
			"expiresAt":     cs.ExpiresAt,
		},
	}, nil
}

// ParseWebhook verifies Stripe-Signature when a signing secret is configured
// and maps checkout events onto payment.succeeded / payment.failed. Other
// Stripe event types keep their own name and end up ignored.
func (p *stripeProvider) ParseWebhook(body []byte, header http.Header) (webhook.Event, error) {
	var (
		ev  stripe.Event
		err error
	)
	if p.webhookSecret != "" {
		ev, err = stripewebhook.ConstructEventWithOptions(body, header.Get(stripeSignatureHeader), p.webhookSecret,
			stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return webhook.Event{}, fmt.Errorf("%w: stripe signature: %v", apperr.ErrUnauthorized, err)
		}
	} else if err := json.Unmarshal(body, &ev); err != nil {
		return webhook.Event{}, apperr.Malformed(err)
	}

	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return webhook.Event{}, apperr.Field("data", "is required")
	}

	out := webhook.Event{ID: ev.ID, Type: webhook.Kind(ev.Type), Payload: ev.Data.Raw}

	var kind webhook.Kind
	switch ev.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		kind = webhook.PaymentSucceeded
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed, stripe.EventTypeCheckoutSessionExpired:
		kind = webhook.PaymentFailed
	default:
		return out, out.Validate()
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return webhook.Event{}, apperr.Malformed(err)
	}

	// Completed sessions paid with delayed methods settle later through
	// async_payment_succeeded.
	if ev.Type == stripe.EventTypeCheckoutSessionCompleted && cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return out, nil
	}

	n := Notification{SessionID: cs.ID, Currency: strings.ToUpper(string(cs.Currency))}
	if cs.AmountTotal > 0 {
		amount := cart.FromMinorUnits(cs.AmountTotal)
		n.Amount = &amount
	}
	if kind == webhook.PaymentFailed {
		n.Reason = string(ev.Type)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return webhook.Event{}, err
	}
	return webhook.Event{ID: ev.ID, Type: kind, Payload: payload}, nil
}
