package security

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP over a fixed window. Start
// endpoints use it to stop a misbehaving client from churning through
// game sessions.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
}

type bucket struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows rate requests per window for each client IP
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request from ip is within its allowance
func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &bucket{remaining: rl.rate, resetAt: now.Add(rl.window)}
		rl.buckets[ip] = b
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// sweep drops expired buckets so idle IPs don't accumulate
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if now.After(b.resetAt) {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// GetClientIP extracts the client IP, preferring proxy headers
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the original client
		if idx := strings.IndexByte(forwarded, ','); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
