package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds the token-bucket parameters for the API rate limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed in a burst.
	Burst int
}

// How often idle client buckets are swept, and how long a client may stay
// idle before its bucket is dropped.
const (
	evictInterval = 5 * time.Minute
	clientIdleTTL = 10 * time.Minute
)

type rateClient struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client token bucket across the API. One instance
// lives as long as the server; Close stops its eviction loop on shutdown.
type RateLimiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	clients map[string]*rateClient

	done      chan struct{}
	closeOnce sync.Once
}

// NewRateLimiter returns a running limiter. The caller owns its lifetime and
// must Close it when the server stops.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	l := &RateLimiter{
		cfg:     cfg,
		clients: make(map[string]*rateClient),
		done:    make(chan struct{}),
	}
	go l.evictIdle()
	return l
}

// Close stops the eviction loop. Safe to call more than once.
func (l *RateLimiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *RateLimiter) evictIdle() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, c := range l.clients {
				if time.Since(c.lastSeen) > clientIdleTTL {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *RateLimiter) bucketFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &rateClient{bucket: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.bucket
}

// Middleware rejects requests over the per-client limit with
// 429 Too Many Requests and the API's standard error envelope.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := l.bucketFor(clientIP(r))

		reservation := bucket.Reserve()
		if !reservation.OK() {
			writeTooManyRequests(w, 0)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			// Would exceed the rate; give the tokens back and reject.
			reservation.Cancel()
			writeTooManyRequests(w, int(delay.Seconds())+1)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(bucket.Tokens())))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. X-Forwarded-For is untrusted and
// ignored so clients cannot dodge the limit by spoofing headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "rate limit exceeded"})
}
