package stock

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

type Repository interface {
	SetQuantity(ctx context.Context, u Update) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// SetQuantity upserts the on-hand count. An update older than the stored row
// is ignored.
func (r *repository) SetQuantity(ctx context.Context, u Update) error {
	query := `
		INSERT INTO product_stock (sku, warehouse, quantity, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		ON CONFLICT (sku, warehouse) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		WHERE product_stock.updated_at <= EXCLUDED.updated_at
	`

	var updatedAt sql.NullTime
	if u.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *u.UpdatedAt, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, u.SKU, warehouse(u), u.Quantity, updatedAt); err != nil {
		return fmt.Errorf("failed to upsert stock for %s: %w", u.SKU, err)
	}
	return nil
}

type logRepository struct{}

func NewLogRepository() Repository {
	return logRepository{}
}

func (logRepository) SetQuantity(ctx context.Context, u Update) error {
	logger.FromCtx(ctx).Info("stock update (no database configured)",
		zap.String("sku", u.SKU),
		zap.String("warehouse", warehouse(u)),
		zap.Int("quantity", u.Quantity),
	)
	return nil
}

func warehouse(u Update) string {
	if u.Warehouse == "" {
		return "default"
	}
	return u.Warehouse
}
