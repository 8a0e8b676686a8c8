// Package dispatch is the offer dispatch engine: it owns offer, delivery
// status and rider status transitions, matches deliveries to nearby riders
// and drives the timeout and redispatch chain.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/lock"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/metrics"
	"service-courier-dispatch/internal/notify"
	"service-courier-dispatch/internal/ports/dispatchtx"
)

// adminOfferTTL makes manual offers effectively never expire.
const adminOfferTTL = 365 * 24 * time.Hour

// Config tunes the dispatch engine.
type Config struct {
	OfferTTL         time.Duration
	MaxAttempts      int
	RadiusKm         float64
	CandidateLimit   int
	NearbyRadiusKm   float64
	LockTTL          time.Duration
	TimeoutLockTTL   time.Duration
	OperationTimeout time.Duration
	// StaleGrace is how long past its deadline a pending offer is left to the
	// timeout job before the sweeper may expire it.
	StaleGrace time.Duration
}

func (c Config) withDefaults() Config {
	if c.OfferTTL <= 0 {
		c.OfferTTL = 10 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.RadiusKm <= 0 {
		c.RadiusKm = 3
	}
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = 10
	}
	if c.NearbyRadiusKm <= 0 {
		c.NearbyRadiusKm = 5
	}
	if c.LockTTL <= 0 {
		c.LockTTL = lock.DefaultTTL
	}
	if c.TimeoutLockTTL <= 0 {
		c.TimeoutLockTTL = lock.DefaultTTL
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 3 * time.Second
	}
	if c.StaleGrace <= 0 {
		c.StaleGrace = 2 * time.Minute
	}
	return c
}

// Deps are the collaborators of the Service.
type Deps struct {
	Deliveries DeliveryRepository
	Riders     RiderRepository
	Offers     OfferRepository
	Tx         dispatchtx.Runner
	Locker     Locker
	Statuses   StatusCache
	Locator    Locator
	Positions  PositionStore
	Scheduler  Scheduler
	Notifier   notify.Notifier
	Metrics    *metrics.Dispatch
}

// Service is the dispatch engine.
type Service struct {
	deliveries DeliveryRepository
	riders     RiderRepository
	offers     OfferRepository
	tx         dispatchtx.Runner
	locker     Locker
	statuses   StatusCache
	locator    Locator
	positions  PositionStore
	scheduler  Scheduler
	notifier   notify.Notifier
	metrics    *metrics.Dispatch

	cfg    Config
	logger logx.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a dispatch Service.
func NewService(deps Deps, cfg Config, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.NewDispatch()
	}
	n := deps.Notifier
	if n == nil {
		n = notify.NewLogNotifier(logger)
	}
	return &Service{
		deliveries: deps.Deliveries,
		riders:     deps.Riders,
		offers:     deps.Offers,
		tx:         deps.Tx,
		locker:     deps.Locker,
		statuses:   deps.Statuses,
		locator:    deps.Locator,
		positions:  deps.Positions,
		scheduler:  deps.Scheduler,
		notifier:   n,
		metrics:    m,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

func offerLockKey(id string) string    { return "offer:" + id }
func deliveryLockKey(id string) string { return "delivery:" + id }

func (s *Service) release(ctx context.Context, lk *lock.Lock) {
	if err := lk.Release(ctx); err != nil {
		// the TTL frees the key anyway
		s.logger.Warn("lock release failed", logx.Event("lock_release_failed"), logx.String("key", lk.Key()), logx.Err(err))
	}
}

func (s *Service) lockBusy(op, key string) {
	s.metrics.LockBusy.WithLabelValues(op).Inc()
	s.logger.Debug("lock busy", logx.Event("lock_busy"), logx.String("operation", op), logx.String("key", key))
}

// cacheStatus writes a rider status through to the cache after a commit.
// Failures only cost matching accuracy.
func (s *Service) cacheStatus(ctx context.Context, riderID string, status domain.RiderStatus) {
	if err := s.statuses.SetStatus(ctx, riderID, status); err != nil {
		s.metrics.CacheWriteFailures.Inc()
		s.logger.Warn("rider status cache write failed",
			logx.Event("cache_write_failed"),
			logx.String("rider_id", riderID),
			logx.String("status", string(status)),
			logx.Err(err),
		)
	}
}

func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification not queued",
			logx.Event("notification_failed"),
			logx.String("type", string(n.Kind)),
			logx.String("target", n.Target()),
			logx.Err(err),
		)
	}
}

func (s *Service) transitioned(o *domain.Offer, to domain.OfferStatus) {
	s.metrics.OfferTransitions.WithLabelValues(string(to)).Inc()
	s.logger.Info("offer transitioned",
		logx.Event("offer_"+eventName(to)),
		logx.String("offer_id", o.ID),
		logx.String("delivery_id", o.DeliveryID),
		logx.String("rider_id", o.RiderID),
		logx.String("from", string(o.Status)),
		logx.String("to", string(to)),
		logx.Int("attempt", o.AttemptCount),
	)
}

func eventName(st domain.OfferStatus) string {
	switch st {
	case domain.OfferAccepted:
		return "accepted"
	case domain.OfferRejected:
		return "rejected"
	case domain.OfferExpired:
		return "expired"
	case domain.OfferCancelledByAdmin:
		return "cancelled"
	default:
		return "updated"
	}
}
