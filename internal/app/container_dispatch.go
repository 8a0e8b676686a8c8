package app

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-courier-dispatch/internal/cache/riderstatus"
	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/geo"
	"service-courier-dispatch/internal/lock"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/metrics"
	"service-courier-dispatch/internal/notify"
	"service-courier-dispatch/internal/repository"
	"service-courier-dispatch/internal/service/dispatch"
)

var newKafkaNotifier = notify.NewKafkaNotifier

// notifications owns the async sender and, with Kafka enabled, its producer.
type notifications struct {
	async    *notify.Async
	producer *notify.KafkaNotifier
}

// Close drains queued notifications and then closes the producer.
func (n *notifications) Close(ctx context.Context) error {
	err := n.async.Close(ctx)
	if n.producer != nil {
		err = errors.Join(err, n.producer.Close())
	}
	return err
}

type notificationsIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Dropped prometheus.Counter `name:"notifications_dropped_total"`
}

func provideNotifications(in notificationsIn) (*notifications, error) {
	k := in.Config.Kafka
	producer, err := newKafkaNotifier(k.Brokers, k.NotificationTopic)
	if err != nil {
		return nil, err
	}

	var next notify.Notifier = notify.NewLogNotifier(in.Logger)
	if producer != nil {
		next = producer
	} else {
		in.Logger.Info("kafka notifications disabled, logging instead", logx.Event("notifier_log_only"))
	}
	return &notifications{
		async:    notify.NewAsync(next, notify.DefaultBuffer, in.Logger, in.Dropped),
		producer: producer,
	}, nil
}

type dispatchIn struct {
	dig.In

	Config        *config.Config
	Logger        logx.Logger
	Metrics       *metrics.Dispatch
	Deliveries    *repository.DeliveryRepo
	Riders        *repository.RiderRepo
	Offers        *repository.OfferRepo
	Tx            *repository.TxRunner
	Locker        *lock.Locker
	Statuses      *riderstatus.Cache
	Locator       *geo.RedisLocator
	Queue         *delayq.Queue
	Notifications *notifications
}

func provideDispatchService(in dispatchIn) *dispatch.Service {
	d := in.Config.Dispatch
	return dispatch.NewService(dispatch.Deps{
		Deliveries: in.Deliveries,
		Riders:     in.Riders,
		Offers:     in.Offers,
		Tx:         in.Tx,
		Locker:     in.Locker,
		Statuses:   in.Statuses,
		Locator:    in.Locator,
		Positions:  in.Locator,
		Scheduler:  in.Queue,
		Notifier:   in.Notifications.async,
		Metrics:    in.Metrics,
	}, dispatch.Config{
		OfferTTL:         d.OfferTTL,
		MaxAttempts:      d.MaxAttempts,
		RadiusKm:         d.RadiusKm,
		CandidateLimit:   d.CandidateLimit,
		LockTTL:          d.LockTTL,
		TimeoutLockTTL:   d.TimeoutLockTTL,
		OperationTimeout: d.OperationTimeout,
		StaleGrace:       d.StaleSweepGrace,
	}, in.Logger.With(logx.String("component", "dispatch")))
}

func registerDispatch(container *dig.Container) error {
	return provideAll(container,
		repository.NewDeliveryRepo,
		repository.NewRiderRepo,
		repository.NewOfferRepo,
		repository.NewTxRunner,
		func(client redis.UniversalClient, cfg *config.Config) *lock.Locker {
			return lock.NewLocker(client, cfg.Dispatch.LockTTL)
		},
		riderstatus.New,
		func(client redis.UniversalClient, statuses *riderstatus.Cache) *geo.RedisLocator {
			return geo.NewRedisLocator(client, statuses)
		},
		func(client redis.UniversalClient, cfg *config.Config, logger logx.Logger) *delayq.Queue {
			return delayq.New(client, delayq.DefaultKey, cfg.Dispatch.TimeoutPollInterval, logger)
		},
		provideNotifications,
		provideDispatchService,
	)
}
