package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"service-courier-dispatch/internal/apperr"
)

func newTestLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLocker(client, time.Second), mr
}

func TestAcquire_ThenBusy(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	lk, err := l.Acquire(ctx, "offer:1", 0)
	require.NoError(t, err)
	require.NotNil(t, lk)
	require.Equal(t, "lock:offer:1", lk.Key())
	require.True(t, mr.Exists("lock:offer:1"))
	require.Equal(t, time.Second, mr.TTL("lock:offer:1"))

	other, err := l.Acquire(ctx, "offer:1", 0)
	require.NoError(t, err)
	require.Nil(t, other, "second holder must see busy, not an error")

	locked, err := l.IsLocked(ctx, "offer:1")
	require.NoError(t, err)
	require.True(t, locked)
}

func TestRelease_IdempotentAndFreesKey(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	lk, err := l.Acquire(ctx, "offer:2", 0)
	require.NoError(t, err)

	require.NoError(t, lk.Release(ctx))
	require.NoError(t, lk.Release(ctx))
	require.False(t, mr.Exists("lock:offer:2"))

	var nilLock *Lock
	require.NoError(t, nilLock.Release(ctx))

	again, err := l.Acquire(ctx, "offer:2", 0)
	require.NoError(t, err)
	require.NotNil(t, again)
}

func TestRelease_DoesNotDeleteForeignLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "offer:3", time.Second)
	require.NoError(t, err)

	// lease runs out and another process takes the key
	mr.FastForward(2 * time.Second)
	fresh, err := l.Acquire(ctx, "offer:3", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, fresh)

	require.NoError(t, stale.Release(ctx))
	require.True(t, mr.Exists("lock:offer:3"), "stale holder must not delete the new owner's key")

	require.NoError(t, fresh.Release(ctx))
	require.False(t, mr.Exists("lock:offer:3"))
}

func TestAcquire_SelfHealsAfterTTL(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "offer:4", 0)
	require.NoError(t, err)

	mr.FastForward(1100 * time.Millisecond)

	lk, err := l.Acquire(ctx, "offer:4", 0)
	require.NoError(t, err)
	require.NotNil(t, lk)
}

func TestAcquire_RedisDown(t *testing.T) {
	l, mr := newTestLocker(t)
	mr.Close()

	lk, err := l.Acquire(context.Background(), "offer:5", 0)
	require.Nil(t, lk)
	require.ErrorIs(t, err, apperr.ErrDependency)
}

func TestAcquire_ConcurrentSingleWinner(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lk, err := l.Acquire(ctx, "offer:6", 0)
			if err == nil && lk != nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, winners.Load())
}

func TestWithLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	called := false
	err := WithLock(ctx, l, "offer:7", 0, func(context.Context) error {
		called = true
		require.True(t, mr.Exists("lock:offer:7"))
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.False(t, mr.Exists("lock:offer:7"))

	sentinel := errors.New("boom")
	err = WithLock(ctx, l, "offer:7", 0, func(context.Context) error { return sentinel })
	require.ErrorIs(t, err, sentinel)
	require.False(t, mr.Exists("lock:offer:7"))
}

func TestWithLock_BusyIsConflict(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	held, err := l.Acquire(ctx, "offer:8", 0)
	require.NoError(t, err)
	defer func() { _ = held.Release(ctx) }()

	err = WithLock(ctx, l, "offer:8", 0, func(context.Context) error {
		t.Fatal("fn must not run while the lock is busy")
		return nil
	})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestWithLock_ReleasesOnPanic(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = WithLock(ctx, l, "offer:9", 0, func(context.Context) error { panic("kaboom") })
	})
	require.False(t, mr.Exists("lock:offer:9"))
}
