package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "dispatch",
	Pass: "dispatch",
	Name: "dispatch",
}

var defaultRedis = Redis{
	Addr: "127.0.0.1:6379",
}

var defaultKafka = Kafka{
	GroupID:           "service-dispatch",
	DeliveryTopic:     "deliveries.created",
	NotificationTopic: "dispatch.notifications",
}

var defaultDispatch = Dispatch{
	OfferTTL:            10 * time.Second,
	MaxAttempts:         5,
	RadiusKm:            3,
	CandidateLimit:      10,
	LockTTL:             5 * time.Second,
	TimeoutLockTTL:      5 * time.Second,
	TimeoutPollInterval: 250 * time.Millisecond,
	StaleSweepInterval:  30 * time.Second,
	StaleSweepGrace:     2 * time.Minute,
	OperationTimeout:    3 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       20,
	Burst:      40,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis { return defaultRedis }

// DefaultKafka returns the default Kafka settings (no brokers).
func DefaultKafka() Kafka { return defaultKafka }

// DefaultDispatch returns the default offer engine settings.
func DefaultDispatch() Dispatch { return defaultDispatch }

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultDebug returns the default debug server settings (disabled).
func DefaultDebug() Debug { return Debug{} }
