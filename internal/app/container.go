package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/metrics"
	"service-courier-dispatch/internal/repository"
)

const (
	connectRetries = 10
	connectDelay   = time.Second
)

type (
	dbConnectFunc    func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)
	redisConnectFunc func(context.Context, logx.Logger, config.Redis, int, time.Duration) (redis.UniversalClient, error)
	migrateFunc      func(context.Context, *pgxpool.Pool) error
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect    dbConnectFunc
	redisConnect redisConnectFunc
	migrate      migrateFunc
	logFatalf    func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:    connectDbWithRetry,
		redisConnect: connectRedisWithRetry,
		migrate:      repository.Migrate,
		logFatalf:    log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithRedisConnect sets the Redis connection function
func (b *ContainerBuilder) WithRedisConnect(fn redisConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.redisConnect = fn
	}
	return b
}

// WithMigrate sets the schema migration function
func (b *ContainerBuilder) WithMigrate(fn migrateFunc) *ContainerBuilder {
	if fn != nil {
		b.migrate = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the API container or exits.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the worker container or exits.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildShared(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStorage(container, b.dbConnect, b.redisConnect, b.migrate); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := registerDispatch(container); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container with default connectors.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container with default connectors.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		newRegistry,
		provideMetrics,
	)
}

func registerStorage(container *dig.Container, dbConnect dbConnectFunc, redisConnect redisConnectFunc, migrate migrateFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), connectRetries, connectDelay)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}
	providerRedis := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (redis.UniversalClient, error) {
		return redisConnect(ctx, logger, cfg.Redis, connectRetries, connectDelay)
	}
	return provideAll(container, providerDB, providerRedis)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

type metricsOut struct {
	dig.Out

	Dispatch               *metrics.Dispatch
	HTTP                   *metrics.HTTP
	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	NotificationsDropped   prometheus.Counter `name:"notifications_dropped_total"`
}

func provideMetrics(reg *prometheus.Registry) (metricsOut, error) {
	out := metricsOut{
		Dispatch:               metrics.NewDispatch(),
		HTTP:                   metrics.NewHTTP(),
		RateLimitExceededTotal: metrics.NewRateLimitExceededTotal(),
		NotificationsDropped:   metrics.NewNotificationsDroppedTotal(),
	}
	cs := append(out.Dispatch.Collectors(),
		out.HTTP.Requests,
		out.HTTP.Duration,
		out.RateLimitExceededTotal,
		out.NotificationsDropped,
	)
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, fmt.Errorf("register metrics: %w", err)
		}
	}
	return out, nil
}
