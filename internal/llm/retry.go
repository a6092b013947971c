package llm

import (
	"context"
	"time"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = 300 * time.Millisecond
)

// retry calls fn up to attempts times with exponential backoff starting at
// base. It stops early when ctx is done.
func retry[T any](ctx context.Context, attempts int, base time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		last = err
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		case <-t.C:
		}
	}
	return zero, last
}
