// Package ratelimit provides the per-worker token bucket shared by every
// outbound catalog call a worker makes.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultQPS is the default token bucket rate: 5 tokens/second. New derives
// the capacity from the rate as max(2*rate, 1).
const DefaultQPS = 5.0

// Limiter wraps golang.org/x/time/rate.Limiter. Acquire is the only
// suspension point it introduces; replenishment and safe concurrent
// decrement are handled internally by rate.Limiter.
type Limiter struct {
	inner *rate.Limiter
}

// New builds a limiter with the given tokens-per-second rate. Capacity is
// max(2*qps, 1), matching the burst policy of the worker token bucket.
func New(qps float64) *Limiter {
	if qps <= 0 {
		qps = DefaultQPS
	}
	capacity := int(2 * qps)
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(qps), capacity)}
}

// Acquire blocks until a token is available or ctx is canceled.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
