package erp

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-api/internal/cart"
)

type Customer struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Document string `json:"document,omitempty" validate:"omitempty,max=32"`
}

type ShippingInfo struct {
	Carrier    string          `json:"carrier" validate:"required,max=64"`
	Price      decimal.Decimal `json:"price" validate:"money"`
	PostalCode string          `json:"postalCode" validate:"required,postalcode"`
}

// Order is a confirmed order as posted to POST /api/erp/sync.
type Order struct {
	OrderID   string        `json:"orderId" validate:"required,max=128"`
	SessionID string        `json:"sessionId,omitempty" validate:"max=255"`
	Customer  Customer      `json:"customer" validate:"required"`
	Items     []cart.Item   `json:"items" validate:"required,min=1,dive"`
	Currency  string        `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Shipping  *ShippingInfo `json:"shipping,omitempty"`
}

// Total is the item total plus shipping, when present.
func (o Order) Total() decimal.Decimal {
	total := cart.Total(o.Items)
	if o.Shipping != nil {
		total = total.Add(o.Shipping.Price)
	}
	return total
}

// Receipt is what a provider reports back after accepting an order.
type Receipt struct {
	ERPOrderID string
	Message    string
}

// Ack is the response contract of the sync endpoint. Every provider must
// produce it unchanged.
type Ack struct {
	Success    bool      `json:"success"`
	OrderID    string    `json:"orderId"`
	ERPOrderID string    `json:"erpOrderId"`
	Message    string    `json:"message"`
	SyncedAt   time.Time `json:"syncedAt"`
}
