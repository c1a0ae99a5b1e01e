package erp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/apperr"
	"storefront-api/internal/cart"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/validation"
)

type Service interface {
	Sync(ctx context.Context, o Order) (*Ack, error)
}

type service struct {
	provider Provider
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(p Provider, m *metrics.Metrics) Service {
	return &service{provider: p, metrics: m, now: time.Now}
}

func (s *service) Sync(ctx context.Context, o Order) (*Ack, error) {
	o.Currency = cart.NormalizeCurrency(o.Currency)
	if err := validation.Struct(o); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("provider", s.provider.Name()),
		zap.String("order_id", o.OrderID),
	)

	start := time.Now()
	receipt, err := s.provider.SendOrder(ctx, o)
	s.metrics.ObserveProviderCall("erp", s.provider.Name(), start, err)
	if err != nil {
		return nil, apperr.Upstream(s.provider.Name(), err)
	}

	log.Info("order synced to ERP",
		zap.String("erp_order_id", receipt.ERPOrderID),
		zap.String("total", o.Total().StringFixed(2)),
	)

	return &Ack{
		Success:    true,
		OrderID:    o.OrderID,
		ERPOrderID: receipt.ERPOrderID,
		Message:    receipt.Message,
		SyncedAt:   s.now().UTC(),
	}, nil
}
