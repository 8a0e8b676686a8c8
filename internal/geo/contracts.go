package geo

import (
	"context"

	"service-courier-dispatch/internal/domain"
)

// Locator finds available riders near a point.
type Locator interface {
	// Nearby returns available riders within radiusKm of (lat, lon), closest
	// first, at most limit of them.
	Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.Candidate, error)
}

// StatusReader is the part of the rider status cache used for filtering.
type StatusReader interface {
	GetStatuses(ctx context.Context, riderIDs []string) (map[string]domain.RiderStatus, error)
}
