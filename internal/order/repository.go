package order

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

// Repository moves an order out of PENDING once its payment settles.
type Repository interface {
	MarkAsPaid(ctx context.Context, sessionID string) error
	MarkAsFailed(ctx context.Context, sessionID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MarkAsPaid(ctx context.Context, sessionID string) error {
	return r.transition(ctx, sessionID, StatusPaid)
}

func (r *repository) MarkAsFailed(ctx context.Context, sessionID string) error {
	return r.transition(ctx, sessionID, StatusFailed)
}

// transition only touches PENDING orders, so a replayed or late event never
// flips a settled order.
func (r *repository) transition(ctx context.Context, sessionID string, status OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE checkout_session_id = $2 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, query, status, sessionID, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no pending order for session %s", ErrOrderNotFound, sessionID)
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("session_id", sessionID),
		zap.String("status", string(status)),
	)
	return nil
}

type logRepository struct{}

// NewLogRepository is used when no database is configured; transitions are
// only logged.
func NewLogRepository() Repository {
	return logRepository{}
}

func (logRepository) MarkAsPaid(ctx context.Context, sessionID string) error {
	logTransition(ctx, sessionID, StatusPaid)
	return nil
}

func (logRepository) MarkAsFailed(ctx context.Context, sessionID string) error {
	logTransition(ctx, sessionID, StatusFailed)
	return nil
}

func logTransition(ctx context.Context, sessionID string, status OrderStatus) {
	logger.FromCtx(ctx).Info("order status change (no database configured)",
		zap.String("session_id", sessionID),
		zap.String("status", string(status)),
	)
}
