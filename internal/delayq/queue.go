// Package delayq is a small delayed job queue on a Redis sorted set.
//
// Jobs are scored by their due time in unix milliseconds. Pollers claim due
// jobs with a Lua script that pushes their score forward by a lease in the
// same step, so a job is handed to one poller at a time even with many worker
// instances. A job leaves the set only once its handler succeeds; a failed or
// interrupted job becomes due again when its lease runs out. Delivery is
// at-least-once and handlers must be idempotent.
package delayq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/logx"
)

// DefaultKey is the sorted set holding offer timeout jobs.
const DefaultKey = "dispatch:timeouts"

const (
	defaultBatch = 100
	// DefaultLease is how long a claimed job stays hidden from other pollers.
	DefaultLease = 30 * time.Second
)

// Job is the payload armed when an offer is created.
type Job struct {
	OfferID      string `json:"offer_id"`
	DeliveryID   string `json:"delivery_id"`
	AttemptCount int    `json:"attempt_count"`
}

// Handler processes one due job.
type Handler func(context.Context, Job) error

// Lease is a claimed job. The entry stays scheduled at the lease deadline
// until Ack removes it.
type Lease struct {
	Job
	member string
}

var claimScript = redis.NewScript(`
local items = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, tonumber(ARGV[2]))
for _, m in ipairs(items) do
	redis.call("ZADD", KEYS[1], "XX", ARGV[3], m)
end
return items
`)

// Queue schedules and polls delayed jobs.
type Queue struct {
	client   redis.UniversalClient
	key      string
	interval time.Duration
	lease    time.Duration
	batch    int
	logger   logx.Logger
	now      func() time.Time
}

// New creates a Queue polling key every interval.
func New(client redis.UniversalClient, key string, interval time.Duration, logger logx.Logger) *Queue {
	if key == "" {
		key = DefaultKey
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Queue{
		client:   client,
		key:      key,
		interval: interval,
		lease:    DefaultLease,
		batch:    defaultBatch,
		logger:   logger,
		now:      time.Now,
	}
}

// Schedule arms job to become due after delay.
func (q *Queue) Schedule(ctx context.Context, delay time.Duration, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("delayq: encode job: %w", err)
	}
	due := q.now().Add(delay).UnixMilli()
	if err := q.client.ZAdd(ctx, q.key, redis.Z{Score: float64(due), Member: string(payload)}).Err(); err != nil {
		return fmt.Errorf("delayq: schedule offer %s: %w", job.OfferID, err)
	}
	return nil
}

// Len returns the number of scheduled jobs, due or not.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.key).Result()
}

// Claim leases up to the batch size of due jobs. Entries that cannot be
// decoded are logged and removed.
func (q *Queue) Claim(ctx context.Context) ([]Lease, error) {
	now := q.now()
	raw, err := claimScript.Run(ctx, q.client, []string{q.key},
		now.UnixMilli(), q.batch, now.Add(q.lease).UnixMilli(),
	).StringSlice()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("delayq: claim: %w", err)
	}

	leases := make([]Lease, 0, len(raw))
	for _, m := range raw {
		var j Job
		if err := json.Unmarshal([]byte(m), &j); err != nil {
			q.logger.Warn("delayq: bad job payload", logx.Event("delayq_bad_payload"), logx.Err(err))
			if err := q.client.ZRem(ctx, q.key, m).Err(); err != nil {
				q.logger.Warn("delayq: drop bad payload failed", logx.Event("delayq_ack_failed"), logx.Err(err))
			}
			continue
		}
		leases = append(leases, Lease{Job: j, member: m})
	}
	return leases, nil
}

// Ack removes a handled job.
func (q *Queue) Ack(ctx context.Context, l Lease) error {
	if err := q.client.ZRem(ctx, q.key, l.member).Err(); err != nil {
		return fmt.Errorf("delayq: ack offer %s: %w", l.OfferID, err)
	}
	return nil
}

// RunOnce claims the due jobs and hands each to h. Jobs whose handler
// succeeds are acked; the rest come back after the lease. It returns the
// number of jobs claimed.
func (q *Queue) RunOnce(ctx context.Context, h Handler) (int, error) {
	leases, err := q.Claim(ctx)
	if err != nil {
		return 0, err
	}
	for _, l := range leases {
		if err := h(ctx, l.Job); err != nil {
			q.logger.Error("delayq: job failed",
				logx.Event("delayq_job_failed"),
				logx.String("offer_id", l.OfferID),
				logx.String("delivery_id", l.DeliveryID),
				logx.Int("attempt", l.AttemptCount),
				logx.Duration("retry_in", q.lease),
				logx.Err(err),
			)
			continue
		}
		// ack even when shutdown already cancelled ctx
		if err := q.Ack(context.WithoutCancel(ctx), l); err != nil {
			q.logger.Warn("delayq: ack failed, job will be redelivered", logx.Event("delayq_ack_failed"), logx.Err(err))
		}
	}
	return len(leases), nil
}

// Run polls until ctx is done.
func (q *Queue) Run(ctx context.Context, h Handler) error {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := q.RunOnce(ctx, h); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				q.logger.Warn("delayq: poll failed", logx.Event("delayq_poll_failed"), logx.Err(err))
			}
		}
	}
}
