package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter enforces a fixed-window per-client request budget. Windows are
// keyed by API key when present, falling back to the client IP, so one
// integration cannot starve another behind the same proxy.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	interval  time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter creates a limiter allowing limit requests per minute.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Middleware wraps a handler with rate limiting. Rejected requests get a 429
// with Retry-After and X-RateLimit-Limit headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.allow(clientKey(r))
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"success":     false,
				"error":       fmt.Sprintf("rate limit of %d requests per minute exceeded", rl.limit),
				"retry_after": int(retryAfter.Seconds()),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records one request against the key's window and reports whether it
// fits the budget. When it doesn't, retryAfter is the time until the window
// resets.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	win, exists := rl.windows[key]
	if !exists || now.Sub(win.start) >= rl.interval {
		rl.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if win.count >= rl.limit {
		retryAfter := rl.interval - now.Sub(win.start)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	win.count++
	return true, 0
}

// sweep drops expired windows so idle clients don't accumulate. Caller holds
// the lock.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.interval {
		return
	}
	rl.lastSweep = now
	for key, win := range rl.windows {
		if now.Sub(win.start) >= rl.interval {
			delete(rl.windows, key)
		}
	}
}

// clientKey identifies the caller for rate limiting. API keys are truncated
// so the full credential never sits in memory as a map key.
func clientKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		if len(apiKey) > 16 {
			apiKey = apiKey[:16]
		}
		return "key:" + apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
