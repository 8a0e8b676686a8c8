package dispatch

import (
	"context"
	"time"

	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/lock"
)

// DeliveryRepository is the record store view of deliveries.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	ListByStatus(ctx context.Context, status domain.DeliveryStatus, limit int) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.DeliveryStatus) (bool, error)
	CountByStatus(ctx context.Context, status domain.DeliveryStatus) (int64, error)
}

// RiderRepository is the record store view of riders.
type RiderRepository interface {
	Create(ctx context.Context, r *domain.Rider) error
	Get(ctx context.Context, id string) (*domain.Rider, error)
	List(ctx context.Context, limit, offset int) ([]domain.Rider, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.RiderStatus) (bool, error)
	SetPosition(ctx context.Context, id string, p domain.Point) error
	CountByStatus(ctx context.Context, status domain.RiderStatus) (int64, error)
}

// OfferRepository is the record store view of offers.
type OfferRepository interface {
	Create(ctx context.Context, o *domain.Offer) error
	Get(ctx context.Context, id string) (*domain.Offer, error)
	FindByDelivery(ctx context.Context, deliveryID string, status domain.OfferStatus) ([]domain.Offer, error)
	List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error)
	Transition(ctx context.Context, t domain.OfferTransition) (bool, error)
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
	RiderIDsByDelivery(ctx context.Context, deliveryID string) ([]string, error)
	CountByStatus(ctx context.Context, status domain.OfferStatus) (int64, error)
}

// Locker hands out short lease locks.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*lock.Lock, error)
}

// StatusCache is the write side of the rider status cache.
type StatusCache interface {
	SetStatus(ctx context.Context, riderID string, status domain.RiderStatus) error
}

// Locator finds available riders around a point.
type Locator interface {
	Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.Candidate, error)
}

// PositionStore keeps the geo index of rider positions.
type PositionStore interface {
	UpdateLocation(ctx context.Context, riderID string, p domain.Point) error
	Location(ctx context.Context, riderID string) (*domain.Point, error)
}

// Scheduler arms offer timeout jobs.
type Scheduler interface {
	Schedule(ctx context.Context, delay time.Duration, job delayq.Job) error
}
