// Package riderstatus keeps a Redis shadow of rider availability used to
// filter geo candidates without touching the record store.
package riderstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/domain"
)

const keyPrefix = "rider:status:"

// Key returns the cache key for a rider.
func Key(riderID string) string { return keyPrefix + riderID }

// Cache is a Redis backed rider status cache. Entries never expire; they are
// overwritten on every authoritative status change.
type Cache struct {
	client redis.UniversalClient
}

// New creates a Cache.
func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// SetStatus writes the rider status.
func (c *Cache) SetStatus(ctx context.Context, riderID string, status domain.RiderStatus) error {
	if err := c.client.Set(ctx, Key(riderID), string(status), 0).Err(); err != nil {
		return fmt.Errorf("riderstatus: set %s: %w", riderID, err)
	}
	return nil
}

// GetStatus returns the cached status of one rider. ok is false when the
// rider has no entry.
func (c *Cache) GetStatus(ctx context.Context, riderID string) (status domain.RiderStatus, ok bool, err error) {
	v, err := c.client.Get(ctx, Key(riderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("riderstatus: get %s: %w", riderID, err)
	}
	return domain.RiderStatus(v), true, nil
}

// GetStatuses returns statuses for the given riders in one round trip.
// Riders without an entry are absent from the result map.
func (c *Cache) GetStatuses(ctx context.Context, riderIDs []string) (map[string]domain.RiderStatus, error) {
	out := make(map[string]domain.RiderStatus, len(riderIDs))
	if len(riderIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(riderIDs))
	for i, id := range riderIDs {
		keys[i] = Key(id)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("riderstatus: mget: %w", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[riderIDs[i]] = domain.RiderStatus(s)
	}
	return out, nil
}

// Delete removes the rider entry.
func (c *Cache) Delete(ctx context.Context, riderID string) error {
	if err := c.client.Del(ctx, Key(riderID)).Err(); err != nil {
		return fmt.Errorf("riderstatus: delete %s: %w", riderID, err)
	}
	return nil
}
