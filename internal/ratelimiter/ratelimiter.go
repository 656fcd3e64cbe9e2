package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces requests towards a remote service with a token bucket.
//
// Bursts up to the bucket capacity are served immediately; beyond that,
// requests wait for tokens to refill at the sustained rate.
//
// Thread safety:
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter.
//
// Parameters:
//   - requestsPerSecond: Sustained rate. 0 disables limiting.
//   - burst: Bucket capacity. 0 defaults to requestsPerSecond.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst == 0 {
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Unlimited reports whether the limiter lets every request through.
func (r *RateLimiter) Unlimited() bool {
	return r.limiter.Limit() == rate.Inf
}

// Wait blocks until a token is available or ctx is done.
//
// Returns the context error if ctx is cancelled first, or an error if the
// wait would exceed the ctx deadline.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
