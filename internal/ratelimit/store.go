package ratelimit

import (
	"context"
	"time"
)

// Store counts outgoing requests per key over a sliding window.
type Store interface {
	// Record adds one request under key and returns how many fall inside the last window,
	// the new one included. Entries older than the window are dropped.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, key string, window time.Duration) (int64, error)

func (f StoreFunc) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	return f(ctx, key, window)
}
