package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewNotificationsDroppedTotal returns a counter of notifications that were never delivered
func NewNotificationsDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Total number of notifications dropped because the queue was full or sending failed",
	})
}

// Dispatch groups the counters of the offer dispatch engine.
type Dispatch struct {
	OffersCreated      prometheus.Counter
	OfferTransitions   *prometheus.CounterVec
	LockBusy           *prometheus.CounterVec
	DispatchOutcomes   *prometheus.CounterVec
	ChainExhausted     prometheus.Counter
	CacheWriteFailures prometheus.Counter
	StaleOffersExpired prometheus.Counter
}

// NewDispatch creates the dispatch counters. They are not registered.
func NewDispatch() *Dispatch {
	return &Dispatch{
		OffersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_offers_created_total",
			Help: "Total number of offers created",
		}),
		OfferTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_offer_transitions_total",
			Help: "Total number of offer status transitions by target status",
		}, []string{"status"}),
		LockBusy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_lock_busy_total",
			Help: "Total number of operations that found a dispatch lock held by someone else",
		}, []string{"operation"}),
		DispatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_attempts_total",
			Help: "Total number of automatic dispatch attempts by outcome",
		}, []string{"outcome"}),
		ChainExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_chain_exhausted_total",
			Help: "Total number of deliveries left pending after the redispatch chain gave up",
		}),
		CacheWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_cache_write_failures_total",
			Help: "Total number of failed rider status cache write-throughs",
		}),
		StaleOffersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_stale_offers_expired_total",
			Help: "Total number of pending offers expired by the periodic sweeper",
		}),
	}
}

// Collectors returns every counter for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		d.OffersCreated,
		d.OfferTransitions,
		d.LockBusy,
		d.DispatchOutcomes,
		d.ChainExhausted,
		d.CacheWriteFailures,
		d.StaleOffersExpired,
	}
}

// MustRegister registers the counters with reg.
func (d *Dispatch) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(d.Collectors()...)
}

// HTTP groups request counters labelled by route pattern.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP creates the HTTP collectors. They are not registered.
func NewHTTP() *HTTP {
	return &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// MustRegister registers the collectors with reg.
func (h *HTTP) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(h.Requests, h.Duration)
}
