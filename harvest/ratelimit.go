package harvest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Limiter = (*HostLimiter)(nil)

// Limiter paces requests to a host.
type Limiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}

// HostLimiter enforces a minimum interval between requests to the same host
// using one token bucket per host. The first request to a host is immediate.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewHostLimiter creates a HostLimiter that allows one request per interval
// per host. A zero interval disables pacing.
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the pacing interval allows a request to host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
