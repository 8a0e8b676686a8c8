package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-courier-dispatch/internal/logx"
)

// DefaultBuffer is the queue size used by NewAsync when none is given.
const DefaultBuffer = 1024

const sendTimeout = 5 * time.Second

// ErrClosed is returned by Notify after Close.
var ErrClosed = errors.New("notify: closed")

// Async queues notifications and sends them from a background goroutine, so
// callers never wait on the broker. A full queue drops the notification.
type Async struct {
	next    Notifier
	logger  logx.Logger
	dropped prometheus.Counter

	queue chan Notification
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts the sender goroutine. dropped may be nil.
func NewAsync(next Notifier, buffer int, logger logx.Logger, dropped prometheus.Counter) *Async {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = logx.Nop()
	}
	a := &Async{
		next:    next,
		logger:  logger,
		dropped: dropped,
		queue:   make(chan Notification, buffer),
		done:    make(chan struct{}),
	}
	go a.loop()
	return a
}

// Notify enqueues n. It never blocks.
func (a *Async) Notify(_ context.Context, n Notification) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- n:
	default:
		a.drop(n)
	}
	return nil
}

func (a *Async) drop(n Notification) {
	if a.dropped != nil {
		a.dropped.Inc()
	}
	a.logger.Warn("notification dropped: queue full",
		logx.Event("notification_dropped"),
		logx.String("type", string(n.Kind)),
		logx.String("target", n.Target()),
	)
}

func (a *Async) loop() {
	defer close(a.done)
	for n := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := a.next.Notify(ctx, n)
		cancel()
		if err != nil {
			if a.dropped != nil {
				a.dropped.Inc()
			}
			a.logger.Error("notification failed",
				logx.Event("notification_failed"),
				logx.String("type", string(n.Kind)),
				logx.String("target", n.Target()),
				logx.Err(err),
			)
		}
	}
}

// Close stops accepting notifications and waits until the queue is drained
// or ctx is done.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
