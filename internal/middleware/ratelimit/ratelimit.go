// Package ratelimit provides a per-client fixed-window request limiter.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	// Requests allowed per client per Window.
	Requests int
	Window   time.Duration
	// CleanupInterval controls how often stale clients are evicted.
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults for an authenticated JSON API.
func DefaultConfig() Config {
	return Config{
		Requests:        60,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter tracks request counts per client IP over a fixed window.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	// rejected counts requests turned away since startup.
	rejected int64

	cfg          Config
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type window struct {
	start time.Time
	count int
}

// NewLimiter creates a limiter and starts its cleanup goroutine.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Requests <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &Limiter{
		clients:     make(map[string]*window),
		cfg:         cfg,
		stopCleanup: make(chan struct{}),
	}
	go l.runCleanup()
	return l
}

// Allow reports whether a request from the given IP fits in its window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.start) > l.cfg.Window {
		l.clients[clientIP] = &window{start: now, count: 1}
		return true
	}

	w.count++
	if w.count > l.cfg.Requests {
		l.rejected++
		return false
	}
	return true
}

func (l *Limiter) runCleanup() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.stopCleanup:
			return
		}
	}
}

// evictStale drops clients whose window closed at least two windows ago.
func (l *Limiter) evictStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-2 * l.cfg.Window)
	for ip, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Metrics for monitoring limiter behavior.
type Metrics struct {
	Rejected    int64
	ClientCount int64
}

// GetMetrics returns current limiter metrics.
func (l *Limiter) GetMetrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Metrics{
		Rejected:    l.rejected,
		ClientCount: int64(len(l.clients)),
	}
}

// Stop shuts down the cleanup goroutine.
func (l *Limiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// Middleware creates HTTP middleware for rate limiting. onLimit, when nil,
// falls back to a plain 429 with a Retry-After hint.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(l.cfg.Window / time.Second))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
