package payment

import (
	"github.com/shopspring/decimal"

	"storefront-api/internal/cart"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// SessionRequest is the body of POST /api/payment/create-session. Total is
// accepted for compatibility but the amount charged is always recomputed.
type SessionRequest struct {
	Items         []cart.Item      `json:"items" validate:"required,min=1,dive"`
	Currency      string           `json:"currency,omitempty" validate:"omitempty,iso4217"`
	CustomerEmail string           `json:"customerEmail,omitempty" validate:"omitempty,email,max=254"`
	Total         *decimal.Decimal `json:"total,omitempty"`
}

// Checkout is what a provider receives once the request is validated and
// priced.
type Checkout struct {
	Items         []cart.Item
	Currency      string
	Amount        decimal.Decimal
	CustomerEmail string
}

type Session struct {
	SessionID        string          `json:"sessionId"`
	Status           Status          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RedirectURL      string          `json:"redirectUrl"`
	ProviderMetadata map[string]any  `json:"providerMetadata,omitempty"`
}

// Notification is the payload of payment.succeeded and payment.failed.
type Notification struct {
	SessionID string           `json:"sessionId" validate:"required,max=255"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}
