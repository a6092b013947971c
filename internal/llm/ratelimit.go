package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// limiter throttles model calls. A nil limiter never blocks.
type limiter struct {
	rl *rate.Limiter
}

// newLimiter allows rps calls per second with the given burst.
// rps <= 0 disables limiting.
func newLimiter(rps float64, burst int) *limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{rl: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Acquire blocks until a call is allowed or ctx is done.
func (l *limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}
