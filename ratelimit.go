package main

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	limiterSweepEvery = time.Minute
	limiterIdle       = 5 * time.Minute
)

// rateLimiter hands each client a bucket of burst tokens that refills
// continuously at burst tokens per interval.
type rateLimiter struct {
	burst    float64
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

func newRateLimiter(burst int, interval time.Duration) *rateLimiter {
	return &rateLimiter{
		burst:    float64(burst),
		interval: interval,
		now:      time.Now,
		clients:  make(map[string]*bucket),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.clients[key]
	if !ok {
		b = &bucket{tokens: rl.burst, last: now}
		rl.clients[key] = b
	}

	elapsed := now.Sub(b.last)
	b.tokens = min(rl.burst, b.tokens+rl.burst*float64(elapsed)/float64(rl.interval))
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep forgets clients not seen for longer than idle.
func (rl *rateLimiter) sweep(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	for key, b := range rl.clients {
		if b.last.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// sweepLimiters periodically sweeps every limiter until ctx is done.
func sweepLimiters(ctx context.Context, every, idle time.Duration, limiters ...*rateLimiter) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, rl := range limiters {
				rl.sweep(idle)
			}
		}
	}
}

// clientIP is the peer address without its port. Proxy headers are only
// consulted when trustProxy is set, since any client can send them.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range []string{"CF-Connecting-IP", "X-Real-IP"} {
			if ip := r.Header.Get(h); ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
