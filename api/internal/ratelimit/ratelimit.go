// Package ratelimit meters requests per client IP with token buckets. The
// upstream model call is the expensive resource, so /process_image carries
// a much higher token cost than the free endpoints.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/juju/ratelimit"
)

type Limiter struct {
	clients map[string]*ratelimit.Bucket
	mu      sync.RWMutex

	rate     float64
	capacity int64
}

// New creates a limiter refilling at rate tokens/second up to capacity per
// client, and starts the idle-bucket sweeper.
func New(rate float64, capacity int64) *Limiter {
	l := &Limiter{
		clients:  make(map[string]*ratelimit.Bucket),
		rate:     rate,
		capacity: capacity,
	}
	go l.cleanup()
	return l
}

func (l *Limiter) bucket(clientIP string) *ratelimit.Bucket {
	l.mu.RLock()
	b, ok := l.clients[clientIP]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.clients[clientIP]; !ok {
		b = ratelimit.NewBucketWithRate(l.rate, l.capacity)
		l.clients[clientIP] = b
	}
	return b
}

// cleanup drops clients whose buckets refilled completely, i.e. idle ones.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for ip, b := range l.clients {
			if b.Available() == b.Capacity() {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

// tokenCost prices a request. The model call dominates everything else.
func tokenCost(r *http.Request) int64 {
	// CORS preflights do no work and must not be throttled, or the
	// browser never gets to send the real request.
	if r.Method == http.MethodOptions {
		return 0
	}
	switch r.URL.Path {
	case "/process_image":
		return 100
	case "/test", "/healthz", "/metrics":
		return 0
	}
	return 5
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cost := tokenCost(r)
		if cost == 0 {
			next.ServeHTTP(w, r)
			return
		}

		b := l.bucket(clientIP(r))
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.capacity, 10))
		if b.TakeAvailable(cost) < cost {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(b.Available(), 10))
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts chi's RealIP middleware to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
