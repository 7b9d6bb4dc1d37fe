package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SecurityHeaders sets response headers for a JSON-only API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

const (
	rateWindow    = time.Minute
	sweepInterval = 5 * time.Minute
)

// RateLimiter caps contact submissions per client address over a sliding
// one-minute window. Call Close to stop its background sweep.
type RateLimiter struct {
	limit int
	// trustedProxies is the number of reverse proxies in front of the server
	// that append to X-Forwarded-For. Zero means the header is ignored.
	trustedProxies int
	now            func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewRateLimiter allows maxPerMinute submissions per client. trustedProxies
// is how many proxy hops may be read back from X-Forwarded-For.
func NewRateLimiter(maxPerMinute, trustedProxies int) *RateLimiter {
	if trustedProxies < 0 {
		trustedProxies = 0
	}
	rl := &RateLimiter{
		limit:          maxPerMinute,
		trustedProxies: trustedProxies,
		now:            time.Now,
		hits:           make(map[string][]time.Time),
		stop:           make(chan struct{}),
	}
	go rl.sweepLoop(sweepInterval)
	return rl
}

// Close stops the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops clients with no hits left in the window.
func (rl *RateLimiter) sweep() {
	since := rl.now().Add(-rateWindow)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, ts := range rl.hits {
		if ts = inWindow(ts, since); len(ts) == 0 {
			delete(rl.hits, client)
		} else {
			rl.hits[client] = ts
		}
	}
}

// allow records a hit for client unless it is over the limit, in which case
// it reports how long until the oldest hit leaves the window.
func (rl *RateLimiter) allow(client string) (bool, time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ts := inWindow(rl.hits[client], now.Add(-rateWindow))
	if len(ts) >= rl.limit {
		rl.hits[client] = ts
		return false, ts[0].Add(rateWindow).Sub(now)
	}
	rl.hits[client] = append(ts, now)
	return true, 0
}

// inWindow filters ts in place, keeping entries after since.
func inWindow(ts []time.Time, since time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(since) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Middleware rejects over-limit clients with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := rl.clientIP(r)
		ok, wait := rl.allow(client)
		if !ok {
			slog.Warn("contact rate limit exceeded", "client", client, "path", r.URL.Path)
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Success: false,
				Message: "Too many requests, please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP returns the peer address, or with trusted proxies configured the
// X-Forwarded-For entry appended by the outermost of them. Entries to its left
// are client supplied and never used.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.trustedProxies > 0 {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if idx := len(parts) - rl.trustedProxies; idx >= 0 {
				if ip := strings.TrimSpace(parts[idx]); ip != "" {
					return ip
				}
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
