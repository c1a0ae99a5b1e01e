package shipping

import (
	"github.com/shopspring/decimal"

	"storefront-api/internal/cart"
)

// RateRequest is the body of POST /api/shipping/calculate.
type RateRequest struct {
	PostalCode string      `json:"postalCode" validate:"required,postalcode"`
	Items      []cart.Item `json:"items" validate:"required,min=1,dive"`
}

// Shipment is what a provider quotes.
type Shipment struct {
	DestinationPostalCode string
	Items                 []cart.Item
	Subtotal              decimal.Decimal
}

// Quote is one carrier service as priced by the provider, before the
// free-shipping rule is applied.
type Quote struct {
	Carrier      string
	Service      string
	Price        decimal.Decimal
	DeliveryDays int
}

type Option struct {
	Carrier       string          `json:"carrier"`
	Service       string          `json:"service,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	DeliveryDays  int             `json:"deliveryDays"`
	FreeShipping  bool            `json:"freeShipping"`
}

type RateResponse struct {
	PostalCode            string          `json:"postalCode"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	FreeShippingEligible  bool            `json:"freeShippingEligible"`
	Options               []Option        `json:"options"`
}
