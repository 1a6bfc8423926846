package wizard

import (
	"context"
	"time"
)

// Simulate waits d to stand in for network latency in the demos. It returns
// ctx.Err() if the context ends first.
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
