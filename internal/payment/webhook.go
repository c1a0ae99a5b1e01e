package payment

import (
	"context"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/order"
	"storefront-api/internal/webhook"
)

// NewDispatcher routes payment outcomes to the order repository.
func NewDispatcher(orders order.Repository) *webhook.Dispatcher {
	d := webhook.NewDispatcher()

	webhook.On(d, webhook.PaymentSucceeded, func(ctx context.Context, ev webhook.Event, n Notification) error {
		logger.FromCtx(ctx).Info("payment succeeded",
			zap.String("event_id", ev.ID),
			zap.String("session_id", n.SessionID),
		)
		return orders.MarkAsPaid(ctx, n.SessionID)
	})

	webhook.On(d, webhook.PaymentFailed, func(ctx context.Context, ev webhook.Event, n Notification) error {
		logger.FromCtx(ctx).Warn("payment failed",
			zap.String("event_id", ev.ID),
			zap.String("session_id", n.SessionID),
			zap.String("reason", n.Reason),
		)
		return orders.MarkAsFailed(ctx, n.SessionID)
	})

	return d
}
