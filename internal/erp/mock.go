package erp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-api/internal/provider"
)

type mockProvider struct {
	latency time.Duration
}

// NewMockProvider accepts every order without forwarding it anywhere.
func NewMockProvider(latency time.Duration) Provider {
	return &mockProvider{latency: latency}
}

func (p *mockProvider) Name() string { return provider.Mock }

func (p *mockProvider) SendOrder(ctx context.Context, o Order) (*Receipt, error) {
	if err := provider.Simulate(ctx, p.latency); err != nil {
		return nil, err
	}
	return &Receipt{
		ERPOrderID: "mock-erp-" + uuid.NewString(),
		Message:    "order accepted by mock ERP",
	}, nil
}
