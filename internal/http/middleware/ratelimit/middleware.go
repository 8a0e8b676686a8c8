package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"service-courier-dispatch/internal/logx"
)

// RiderHeader carries the rider id sent by the rider app.
const RiderHeader = "X-Rider-ID"

// KeyFunc extracts the bucket key from a request.
type KeyFunc func(*http.Request) string

// Middleware rejects requests whose key ran out of tokens with 429.
type Middleware struct {
	logger  logx.Logger
	counter prometheus.Counter
	limiter Limiter
	key     KeyFunc
}

// New creates a Middleware keyed by RiderOrIP.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
		key:     RiderOrIP,
	}
}

// WithKey replaces the key function.
func (m *Middleware) WithKey(fn KeyFunc) *Middleware {
	if fn != nil {
		m.key = fn
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.Event("rate_limited"),
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"}); err != nil {
				m.logger.Debug("rate limit response write failed",
					logx.String("key", key),
					logx.Err(err),
				)
			}
		})
	}
}

// RiderOrIP keys rider app traffic by rider id so riders behind one carrier NAT
// do not share a bucket. Other callers are keyed by client IP.
func RiderOrIP(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(RiderHeader)); id != "" {
		return "rider:" + id
	}
	return "ip:" + ClientIP(r)
}

// ClientIP returns the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
