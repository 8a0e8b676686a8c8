// Package geo implements the geospatial rider index on Redis GEO commands.
package geo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
)

// LocationsKey is the sorted set holding rider positions.
const LocationsKey = "riders:locations"

// overFetch widens the raw radius query so that busy or offline riders
// filtered out afterwards do not starve the result.
const overFetch = 3

// RedisLocator stores rider positions in a Redis GEO set and filters them
// through the rider status cache.
type RedisLocator struct {
	client   redis.UniversalClient
	statuses StatusReader
}

// NewRedisLocator creates a RedisLocator.
func NewRedisLocator(client redis.UniversalClient, statuses StatusReader) *RedisLocator {
	return &RedisLocator{client: client, statuses: statuses}
}

// Nearby implements Locator. Riders without a cached status are treated as
// not available.
func (l *RedisLocator) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.Candidate, error) {
	if !(domain.Point{Lat: lat, Lon: lon}).Valid() {
		return nil, apperr.Invalidf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	if radiusKm <= 0 {
		return nil, apperr.Invalidf("radius must be positive")
	}
	if limit <= 0 {
		return nil, apperr.Invalidf("limit must be positive")
	}

	locs, err := l.client.GeoRadius(ctx, LocationsKey, lon, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Count:    limit * overFetch,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, apperr.Dependency("geo: radius query", err)
	}
	if len(locs) == 0 {
		return []domain.Candidate{}, nil
	}

	ids := make([]string, len(locs))
	for i, loc := range locs {
		ids[i] = loc.Name
	}
	statuses, err := l.statuses.GetStatuses(ctx, ids)
	if err != nil {
		return nil, apperr.Dependency("geo: status filter", err)
	}

	out := make([]domain.Candidate, 0, limit)
	for _, loc := range locs {
		if statuses[loc.Name] != domain.RiderAvailable {
			continue
		}
		out = append(out, domain.Candidate{RiderID: loc.Name, DistanceKm: loc.Dist})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// UpdateLocation records the current position of a rider.
func (l *RedisLocator) UpdateLocation(ctx context.Context, riderID string, p domain.Point) error {
	if !p.Valid() {
		return apperr.Invalidf("coordinates out of range: lat=%v lon=%v", p.Lat, p.Lon)
	}
	err := l.client.GeoAdd(ctx, LocationsKey, &redis.GeoLocation{
		Name:      riderID,
		Longitude: p.Lon,
		Latitude:  p.Lat,
	}).Err()
	if err != nil {
		return apperr.Dependency(fmt.Sprintf("geo: update %s", riderID), err)
	}
	return nil
}

// Location returns the last known position of a rider, or nil if none.
func (l *RedisLocator) Location(ctx context.Context, riderID string) (*domain.Point, error) {
	pos, err := l.client.GeoPos(ctx, LocationsKey, riderID).Result()
	if err != nil {
		return nil, apperr.Dependency(fmt.Sprintf("geo: position %s", riderID), err)
	}
	if len(pos) == 0 || pos[0] == nil {
		return nil, nil
	}
	return &domain.Point{Lat: pos[0].Latitude, Lon: pos[0].Longitude}, nil
}

// RemoveLocation drops a rider from the index.
func (l *RedisLocator) RemoveLocation(ctx context.Context, riderID string) error {
	if err := l.client.ZRem(ctx, LocationsKey, riderID).Err(); err != nil {
		return apperr.Dependency(fmt.Sprintf("geo: remove %s", riderID), err)
	}
	return nil
}
