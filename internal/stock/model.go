package stock

import "time"

// Update is the payload of a stock.updated event. Quantity is the absolute
// on-hand count, not a delta.
type Update struct {
	SKU       string     `json:"sku" validate:"required,max=128"`
	Quantity  int        `json:"quantity" validate:"gte=0"`
	Warehouse string     `json:"warehouse,omitempty" validate:"max=64"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
