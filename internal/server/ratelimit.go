package server

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientTTL is how long an idle client's bucket is kept before pruning.
const clientTTL = 10 * time.Minute

// rateLimiter enforces a per-client request cap on the API routes. Buckets
// are keyed by the client's host portion of RemoteAddr. Safe for concurrent
// use.
type rateLimiter struct {
	perMinute int

	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter creates a limiter allowing perMinute sustained requests per
// client with an equal burst.
func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		perMinute: perMinute,
		clients:   make(map[string]*clientBucket),
	}
}

// allow reports whether the client identified by remoteAddr may proceed.
func (rl *rateLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[host]
	if !ok {
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
		}
		rl.clients[host] = b
	}
	b.lastSeen = time.Now()

	rl.pruneLocked()
	return b.limiter.Allow()
}

// pruneLocked drops buckets idle longer than clientTTL. Caller holds mu.
func (rl *rateLimiter) pruneLocked() {
	cutoff := time.Now().Add(-clientTTL)
	for host, b := range rl.clients {
		if b.lastSeen.Before(cutoff) {
			delete(rl.clients, host)
		}
	}
}
