// Package lock implements a lease-style mutual exclusion primitive on Redis.
//
// A lock is a single key holding a random owner token with a TTL. Acquisition is
// one atomic SET NX PX; release deletes the key only while it still holds our
// token, so a holder whose lease already expired can never delete a lock that
// another process has since acquired. The TTL is the only deadlock guard: a
// crashed holder's key disappears on its own.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/apperr"
)

const keyPrefix = "lock:"

// DefaultTTL is used when Acquire is called with a non-positive ttl.
const DefaultTTL = 5 * time.Second

const releaseTimeout = time.Second

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out locks backed by a Redis client.
type Locker struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
	newToken   func() string
}

// NewLocker creates a Locker. A non-positive defaultTTL falls back to DefaultTTL.
func NewLocker(client redis.UniversalClient, defaultTTL time.Duration) *Locker {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Locker{
		client:     client,
		defaultTTL: defaultTTL,
		newToken:   uuid.NewString,
	}
}

// Acquire tries to take key for ttl. It returns (nil, nil) when someone else
// holds the key: busy is an expected outcome, not a failure. An error means
// Redis could not be reached.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	if ttl <= 0 {
		ttl = l.defaultTTL
	}
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, apperr.Dependency("lock: acquire "+key, err)
	}
	if !ok {
		return nil, nil
	}
	return &Lock{client: l.client, key: keyPrefix + key, token: token}, nil
}

// IsLocked reports whether key is currently held by anyone.
func (l *Locker) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, apperr.Dependency("lock: exists "+key, err)
	}
	return n == 1, nil
}

// Lock is a held lease. Release is safe to call any number of times.
type Lock struct {
	client redis.UniversalClient
	key    string
	token  string

	mu       sync.Mutex
	released bool
}

// Key returns the full Redis key of the lock.
func (lk *Lock) Key() string { return lk.key }

// Release gives the lock back if it is still ours. Calling it on a nil lock,
// twice, or after the lease has expired is a no-op.
func (lk *Lock) Release(ctx context.Context) error {
	if lk == nil {
		return nil
	}
	lk.mu.Lock()
	defer lk.mu.Unlock()
	if lk.released {
		return nil
	}

	// release must run even when the caller's context is already done
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, lk.client, []string{lk.key}, lk.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("lock: release %s: %w", lk.key, err)
	}
	lk.released = true
	return nil
}

// Acquirer is the subset of Locker used by WithLock.
type Acquirer interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error)
}

// WithLock runs fn while holding key. A busy key yields apperr.ErrConflict and
// fn is not called. The lock is released on every exit path, panics included.
func WithLock(ctx context.Context, l Acquirer, key string, ttl time.Duration, fn func(context.Context) error) (err error) {
	lk, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	if lk == nil {
		return apperr.Conflictf("%s is being processed", key)
	}
	defer func() {
		if relErr := lk.Release(ctx); relErr != nil && err == nil {
			err = relErr
		}
	}()
	return fn(ctx)
}
