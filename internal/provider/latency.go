package provider

import (
	"context"
	"time"
)

// Simulate blocks for d, returning early with the context error when the
// caller goes away. Mock providers use it to mimic upstream latency.
func Simulate(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
