package remote

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// newLimiter returns a limiter allowing requestsPerMinute calls, or nil when
// throttling is off.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// wait blocks until the limiter allows a call or ctx is done.
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
