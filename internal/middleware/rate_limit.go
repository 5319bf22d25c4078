package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/soge-platform/api/internal/httpx"
)

type window struct {
	count int
	ends  time.Time
}

// IPRateLimiter is a fixed-window limiter keyed by client IP. The number of
// tracked IPs is bounded; when full, expired windows are swept first and
// unknown IPs are refused until room frees up.
type IPRateLimiter struct {
	mu         sync.Mutex
	limit      int
	period     time.Duration
	maxEntries int
	windows    map[string]window
	now        func() time.Time
}

func NewIPRateLimiter(limit int, period time.Duration) *IPRateLimiter {
	return NewIPRateLimiterWithMaxEntries(limit, period, 10000)
}

func NewIPRateLimiterWithMaxEntries(limit int, period time.Duration, maxEntries int) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &IPRateLimiter{
		limit:      limit,
		period:     period,
		maxEntries: maxEntries,
		windows:    map[string]window{},
		now:        time.Now,
	}
}

func (rl *IPRateLimiter) Middleware(message string) func(http.Handler) http.Handler {
	if message == "" {
		message = "Rate limit exceeded"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r.RemoteAddr)
			if ip == "" {
				ip = "unknown"
			}
			if !rl.allow(ip) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.period.Seconds())))
				httpx.WriteError(w, r, http.StatusTooManyRequests, "rate_limited", message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *IPRateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, tracked := rl.windows[ip]
	if !tracked && len(rl.windows) >= rl.maxEntries {
		rl.sweep(now)
		if len(rl.windows) >= rl.maxEntries {
			return false
		}
	}
	if entry.ends.Before(now) {
		entry = window{ends: now.Add(rl.period)}
	}
	entry.count++
	rl.windows[ip] = entry
	return entry.count <= rl.limit
}

func (rl *IPRateLimiter) sweep(now time.Time) {
	for ip, entry := range rl.windows {
		if entry.ends.Before(now) {
			delete(rl.windows, ip)
		}
	}
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
