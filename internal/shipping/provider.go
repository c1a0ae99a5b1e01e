package shipping

import "context"

// Provider quotes carrier services for a shipment. Quotes come back in the
// order they should be shown.
type Provider interface {
	Name() string
	Quote(ctx context.Context, s Shipment) ([]Quote, error)
}
