package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/repository"
)

const attemptTimeout = 3 * time.Second

var (
	newPool        = repository.NewPool
	newRedisClient = func(cfg config.Redis) redis.UniversalClient {
		return redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Addr},
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
)

// retry calls fn until it succeeds, retries run out or ctx is done.
func retry(ctx context.Context, logger logx.Logger, what string, retries int, delay time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			logger.Info(what+" connected", logx.Int("attempt", i))
			return nil
		}
		lastErr = err
		logger.Warn(what+" connect failed",
			logx.Event("connect_retry"),
			logx.Int("attempt", i),
			logx.Int("retries", retries),
			logx.Err(err),
		)
		if i < retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s connect failed after %d attempts: %w", what, retries, lastErr)
}

func connectDbWithRetry(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := retry(ctx, logger, "db", retries, delay, func(ctx context.Context) error {
		p, err := newPool(ctx, dsn)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func connectRedisWithRetry(ctx context.Context, logger logx.Logger, cfg config.Redis, retries int, delay time.Duration) (redis.UniversalClient, error) {
	client := newRedisClient(cfg)
	err := retry(ctx, logger, "redis", retries, delay, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
