package shipping

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-api/internal/apperr"
	"storefront-api/internal/cart"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/validation"
)

// FreeShippingPolicy zeroes the price of Carriers once the subtotal reaches
// Threshold. Carrier names match case-insensitively.
type FreeShippingPolicy struct {
	Threshold decimal.Decimal
	Carriers  []string
}

func (p FreeShippingPolicy) eligible(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(p.Threshold)
}

func (p FreeShippingPolicy) covers(carrier string) bool {
	for _, c := range p.Carriers {
		if strings.EqualFold(c, carrier) {
			return true
		}
	}
	return false
}

type Service interface {
	Calculate(ctx context.Context, req RateRequest) (*RateResponse, error)
}

type service struct {
	provider Provider
	policy   FreeShippingPolicy
	metrics  *metrics.Metrics
}

func NewService(p Provider, policy FreeShippingPolicy, m *metrics.Metrics) Service {
	return &service{provider: p, policy: policy, metrics: m}
}

func (s *service) Calculate(ctx context.Context, req RateRequest) (*RateResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	subtotal := cart.Total(req.Items)

	start := time.Now()
	quotes, err := s.provider.Quote(ctx, Shipment{
		DestinationPostalCode: req.PostalCode,
		Items:                 req.Items,
		Subtotal:              subtotal,
	})
	s.metrics.ObserveProviderCall("shipping", s.provider.Name(), start, err)
	if err != nil {
		return nil, apperr.Upstream(s.provider.Name(), err)
	}

	eligible := s.policy.eligible(subtotal)
	resp := &RateResponse{
		PostalCode:            req.PostalCode,
		Subtotal:              subtotal,
		FreeShippingThreshold: s.policy.Threshold,
		FreeShippingEligible:  eligible,
		Options:               make([]Option, 0, len(quotes)),
	}

	for _, q := range quotes {
		opt := Option{
			Carrier:       q.Carrier,
			Service:       q.Service,
			Price:         q.Price,
			OriginalPrice: q.Price,
			DeliveryDays:  q.DeliveryDays,
		}
		if eligible && s.policy.covers(q.Carrier) {
			opt.Price = decimal.Zero
			opt.FreeShipping = true
		}
		resp.Options = append(resp.Options, opt)
	}

	logger.FromCtx(ctx).Info("shipping rates calculated",
		zap.String("provider", s.provider.Name()),
		zap.String("subtotal", subtotal.StringFixed(2)),
		zap.Bool("free_shipping_eligible", eligible),
		zap.Int("options", len(resp.Options)),
	)
	return resp, nil
}
