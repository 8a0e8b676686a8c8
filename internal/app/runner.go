package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-courier-dispatch/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP API.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		panic(err)
	}
}

type runIn struct {
	dig.In

	Ctx           context.Context
	Logger        logx.Logger
	Server        *http.Server
	Debug         *http.Server `name:"debug_server" optional:"true"`
	Pool          *pgxpool.Pool
	Redis         redis.UniversalClient
	Notifications *notifications
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		startServer(in.Server, in.Logger, "service-dispatch")
		if in.Debug != nil {
			startServer(in.Debug, in.Logger, "debug")
		}

		<-in.Ctx.Done()
		in.Logger.Info("shutting down service-dispatch")

		gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
		if in.Debug != nil {
			gracefulShutdown(in.Debug, in.Logger, shutdownTimeout)
		}
		closeResources(in.Logger, in.Pool, in.Redis, in.Notifications)
		return in.Ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger, name string) {
	go func() {
		logger.Info(name+" listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.String("server", name), logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

// closeResources releases shared clients. Notifications drain first so that
// queued messages still reach the broker.
func closeResources(logger logx.Logger, pool *pgxpool.Pool, client redis.UniversalClient, n *notifications) {
	if n != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.Close(ctx); err != nil {
			logger.Warn("notifications close error", logx.Err(err))
		}
		cancel()
	}
	if client != nil {
		if err := client.Close(); err != nil {
			logger.Warn("redis close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
