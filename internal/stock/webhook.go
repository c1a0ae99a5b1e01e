package stock

import (
	"context"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/webhook"
)

// NewDispatcher routes stock.updated events to repo.
func NewDispatcher(repo Repository) *webhook.Dispatcher {
	d := webhook.NewDispatcher()
	webhook.On(d, webhook.StockUpdated, func(ctx context.Context, ev webhook.Event, u Update) error {
		logger.FromCtx(ctx).Info("stock updated",
			zap.String("event_id", ev.ID),
			zap.String("sku", u.SKU),
			zap.Int("quantity", u.Quantity),
		)
		return repo.SetQuantity(ctx, u)
	})
	return d
}
