package payment

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
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

type service struct {
	provider Provider
	metrics  *metrics.Metrics
}

func NewService(p Provider, m *metrics.Metrics) Service {
	return &service{provider: p, metrics: m}
}

// CreateSession validates the cart, prices it server-side and opens a session
// with the active provider. Provider failures come back as apperr.ErrUpstream
// and are not retried.
func (s *service) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	req.Currency = cart.NormalizeCurrency(req.Currency)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	amount := cart.Total(req.Items)
	log := logger.FromCtx(ctx).With(
		zap.String("provider", s.provider.Name()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("currency", req.Currency),
	)

	if req.Total != nil && !req.Total.Equal(amount) {
		log.Warn("client total ignored", zap.String("client_total", req.Total.String()))
	}

	start := time.Now()
	sess, err := s.provider.CreateSession(ctx, Checkout{
		Items:         req.Items,
		Currency:      req.Currency,
		Amount:        amount,
		CustomerEmail: req.CustomerEmail,
	})
	s.metrics.ObserveProviderCall("payment", s.provider.Name(), start, err)
	if err != nil {
		return nil, apperr.Upstream(s.provider.Name(), err)
	}

	log.Info("payment session created", zap.String("session_id", sess.SessionID))
	return sess, nil
}
