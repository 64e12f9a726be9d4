// Package redis paces search surface requests across processes that share
// one egress address.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/harvest"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces the pacing keys.
const KeyPrefix = "geodossier:pace:"

// reserveScript reserves the next free request slot for a host.
// KEYS[1] = pacing key
// ARGV[1] = now in unix milliseconds
// ARGV[2] = interval in milliseconds
// Returns the milliseconds to wait before the reserved slot.
var reserveScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local interval = tonumber(ARGV[2])
local next = tonumber(redis.call("GET", KEYS[1]))
local slot = now
if next and next > now then
    slot = next
end
redis.call("SET", KEYS[1], slot + interval, "PX", slot - now + interval)
return slot - now
`)

var _ harvest.Limiter = (*HostLimiter)(nil)

// HostLimiter enforces a minimum interval between requests to the same host
// across every process using the same Redis database.
type HostLimiter struct {
	client   *redis.Client
	interval time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewHostLimiter connects to the Redis server at rawURL
// (redis://[:password@]host:port/db). A zero interval disables pacing.
func NewHostLimiter(rawURL string, interval time.Duration) (*HostLimiter, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "invalid redis url: %v", err)
	}
	return &HostLimiter{
		client:   redis.NewClient(opts),
		interval: interval,
		Now:      time.Now,
	}, nil
}

// Ping checks the connection.
func (l *HostLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Wait reserves the next slot for host and blocks until it arrives or ctx
// is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	now := l.Now().UnixMilli()
	res, err := reserveScript.Run(ctx, l.client, []string{KeyPrefix + host}, now, l.interval.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("redis pacing: %w", err)
	}
	if res <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(res) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close closes the Redis client.
func (l *HostLimiter) Close() error {
	return l.client.Close()
}
