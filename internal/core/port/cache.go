package port

import (
	"context"
	"time"
)

// CounterStore keeps fixed-window counters for the rate limiter.
type CounterStore interface {
	// Increment bumps key and returns the new count and when its window resets.
	// The window starts with the first increment of a key.
	Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
	Close() error
}
