package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/service/dispatch"
	"service-courier-dispatch/internal/transport/kafka"
)

var newKafkaConsumer = kafka.NewConsumer

// WorkerRunner runs the background loops: offer timeouts, the stale offer
// sweeper and the delivery intake consumer.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container, provideConsumer)
}

// deliveryIntake feeds Kafka delivery requests into CreateDelivery. The
// dispatch outcome is logged by the service; the consumer only cares whether
// the delivery was stored.
func deliveryIntake(svc *dispatch.Service) kafka.HandleFunc {
	return func(ctx context.Context, in dispatch.NewDelivery) error {
		_, _, err := svc.CreateDelivery(ctx, in)
		return err
	}
}

func provideConsumer(cfg *config.Config, logger logx.Logger, svc *dispatch.Service) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return newKafkaConsumer(logger, k.Brokers, k.GroupID, k.DeliveryTopic, deliveryIntake(svc))
}

type workerIn struct {
	dig.In

	Ctx           context.Context
	Config        *config.Config
	Logger        logx.Logger
	Service       *dispatch.Service
	Queue         *delayq.Queue
	Consumer      *kafka.Consumer
	Pool          *pgxpool.Pool
	Redis         redis.UniversalClient
	Notifications *notifications
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(in workerIn) error {
	defer closeWorker(in)

	sched, err := startSweeper(in.Logger, in.Config.Dispatch.StaleSweepInterval, in.Service.ExpireStaleOffers)
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			in.Logger.Warn("sweeper shutdown error", logx.Err(err))
		}
	}()

	if in.Consumer == nil {
		in.Logger.Info("kafka intake disabled", logx.Event("kafka_intake_disabled"))
	}

	g, ctx := errgroup.WithContext(in.Ctx)
	g.Go(func() error { return in.Queue.Run(ctx, in.Service.HandleTimeout) })
	g.Go(func() error { return in.Consumer.Run(ctx) })

	in.Logger.Info("service-dispatch-worker started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker loop: %w", err)
	}
	return in.Ctx.Err()
}

// startSweeper expires pending offers whose timeout job was lost.
func startSweeper(logger logx.Logger, every time.Duration, sweep func(context.Context) (int64, error)) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if every <= 0 {
		sched.Start()
		return sched, nil
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), every)
			defer cancel()
			n, err := sweep(ctx)
			if err != nil {
				logger.Warn("stale offer sweep failed", logx.Event("stale_sweep_failed"), logx.Err(err))
				return
			}
			if n > 0 {
				logger.Info("stale offers expired", logx.Event("stale_sweep"), logx.Int64("expired", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule sweeper: %w", err)
	}
	sched.Start()
	return sched, nil
}

func closeWorker(in workerIn) {
	if err := in.Consumer.Close(); err != nil {
		in.Logger.Error("kafka close error", logx.Err(err))
	}
	closeResources(in.Logger, in.Pool, in.Redis, in.Notifications)
}
