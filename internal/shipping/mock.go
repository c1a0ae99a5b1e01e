package shipping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront-api/internal/provider"
)

var mockQuotes = []Quote{
	{Carrier: "PAC", Service: "PAC", Price: decimal.RequireFromString("25.50"), DeliveryDays: 8},
	{Carrier: "SEDEX", Service: "SEDEX", Price: decimal.RequireFromString("45.90"), DeliveryDays: 3},
	{Carrier: "Jadlog", Service: ".Package", Price: decimal.RequireFromString("29.90"), DeliveryDays: 6},
}

type mockProvider struct {
	latency time.Duration
}

func NewMockProvider(latency time.Duration) Provider {
	return &mockProvider{latency: latency}
}

func (p *mockProvider) Name() string { return provider.Mock }

// Quote returns fixed prices regardless of destination.
func (p *mockProvider) Quote(ctx context.Context, _ Shipment) ([]Quote, error) {
	if err := provider.Simulate(ctx, p.latency); err != nil {
		return nil, err
	}
	out := make([]Quote, len(mockQuotes))
	copy(out, mockQuotes)
	return out, nil
}
