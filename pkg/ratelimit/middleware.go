package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	iamerrors "github.com/tendant/simple-iam/pkg/errors"
)

// ErrRateLimitExceeded is rendered when a client exhausts its bucket
var ErrRateLimitExceeded = iamerrors.New(iamerrors.ErrCodeRateLimitExceeded, "too many requests, try again later")

// Config holds rate limiting configuration
type Config struct {
	Enabled    bool
	Capacity   int     // Max burst
	RefillRate float64 // Requests per second
	BucketTTL  time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

// DefaultConfig allows 10 requests per minute per client
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Capacity:   10,
		RefillRate: 10.0 / 60.0,
		BucketTTL:  time.Hour,
	}
}

// Middleware limits requests per client address
type Middleware struct {
	config  Config
	limiter *Limiter
}

// NewMiddleware creates a per-client rate limiting middleware
func NewMiddleware(config Config) *Middleware {
	m := &Middleware{config: config}
	if config.Enabled {
		m.limiter = NewLimiter(config.Capacity, config.RefillRate, config.BucketTTL)
	}
	return m
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if !m.config.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := m.clientIP(r)
		allowed, wait := m.limiter.Allow(ip)
		if !allowed {
			slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
			w.Header().Set("Retry-After", retryAfter(wait))
			iamerrors.Render(w, r, ErrRateLimitExceeded)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.config.Capacity))
		next.ServeHTTP(w, r)
	})
}

// Close releases the limiter's background cleanup
func (m *Middleware) Close() {
	if m.limiter != nil {
		m.limiter.Close()
	}
}

func retryAfter(wait time.Duration) string {
	secs := math.Ceil(wait.Seconds())
	if secs < 1 {
		secs = 1
	}
	if secs > 3600 {
		secs = 3600
	}
	return strconv.Itoa(int(secs))
}

func (m *Middleware) clientIP(r *http.Request) string {
	if m.config.TrustProxyHeaders {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
