package ratelimit

import (
	"sync"
	"time"
)

// Config tunes TokenBucketLimiter.
type Config struct {
	Rate       float64       // refill, tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are evicted, 0 keeps them forever
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one token bucket per key (rider or client ip).
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu      sync.Mutex
	buckets map[string]*tokens
	sweptAt time.Time
}

type tokens struct {
	left     float64
	refilled time.Time
	touched  time.Time
}

// NewTokenBucketLimiter fills in defaults for non-positive settings.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.MaxBuckets = max(cfg.MaxBuckets, 0)

	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*tokens),
	}
}

// Allow spends a token for key. A key seen for the first time is refused
// while the limiter already tracks MaxBuckets keys.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	b, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			return false
		}
		b = &tokens{left: float64(l.cfg.Burst), refilled: now}
		l.buckets[key] = b
	}
	return b.take(now, l.cfg.Rate, float64(l.cfg.Burst))
}

func (b *tokens) take(now time.Time, rate, capacity float64) bool {
	b.touched = now
	if elapsed := now.Sub(b.refilled); elapsed > 0 {
		b.left = min(capacity, b.left+elapsed.Seconds()*rate)
		b.refilled = now
	}
	if b.left < 1 {
		return false
	}
	b.left--
	return true
}

// evictIdle runs at most every max(1m, TTL/2). Caller holds l.mu.
func (l *TokenBucketLimiter) evictIdle(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	every := max(time.Minute, l.cfg.TTL/2)
	if !l.sweptAt.IsZero() && now.Sub(l.sweptAt) < every {
		return
	}
	l.sweptAt = now

	for key, b := range l.buckets {
		if now.Sub(b.touched) > l.cfg.TTL {
			delete(l.buckets, key)
		}
	}
}
