package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Dispatch  Dispatch
	RateLimit RateLimit
	Debug     Debug
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a Postgres connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Redis stores Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Kafka stores broker and topic settings. Empty brokers disable Kafka.
type Kafka struct {
	Brokers           []string
	GroupID           string
	DeliveryTopic     string
	NotificationTopic string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Dispatch stores offer engine tuning.
type Dispatch struct {
	OfferTTL            time.Duration
	MaxAttempts         int
	RadiusKm            float64
	CandidateLimit      int
	LockTTL             time.Duration
	TimeoutLockTTL      time.Duration
	TimeoutPollInterval time.Duration
	StaleSweepInterval  time.Duration
	StaleSweepGrace     time.Duration
	OperationTimeout    time.Duration
}

// RateLimit stores HTTP rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Debug stores pprof/metrics server settings. Port 0 disables it.
type Debug struct {
	Port int
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		DB:        DefaultDB(),
		Redis:     DefaultRedis(),
		Kafka:     DefaultKafka(),
		Dispatch:  DefaultDispatch(),
		RateLimit: DefaultRateLimit(),
		Debug:     DefaultDebug(),
	}

	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(intEnv("PORT", &cfg.Port))

	stringEnv("POSTGRES_HOST", &cfg.DB.Host)
	stringEnv("POSTGRES_USER", &cfg.DB.User)
	stringEnv("POSTGRES_PASSWORD", &cfg.DB.Pass)
	stringEnv("POSTGRES_DB", &cfg.DB.Name)
	if v := strings.TrimSpace(os.Getenv("POSTGRES_PORT")); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			add(fmt.Errorf("POSTGRES_PORT: %w", err))
		} else {
			cfg.DB.Port = v
		}
	}

	stringEnv("REDIS_ADDR", &cfg.Redis.Addr)
	stringEnv("REDIS_PASSWORD", &cfg.Redis.Password)
	add(intEnv("REDIS_DB", &cfg.Redis.DB))

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	stringEnv("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	stringEnv("KAFKA_DELIVERY_TOPIC", &cfg.Kafka.DeliveryTopic)
	stringEnv("KAFKA_NOTIFICATION_TOPIC", &cfg.Kafka.NotificationTopic)

	d := &cfg.Dispatch
	add(durationEnv("OFFER_TTL", &d.OfferTTL))
	add(intEnv("DISPATCH_MAX_ATTEMPTS", &d.MaxAttempts))
	add(floatEnv("DISPATCH_RADIUS_KM", &d.RadiusKm))
	add(intEnv("DISPATCH_CANDIDATE_LIMIT", &d.CandidateLimit))
	add(durationEnv("LOCK_TTL", &d.LockTTL))
	add(durationEnv("TIMEOUT_LOCK_TTL", &d.TimeoutLockTTL))
	add(durationEnv("TIMEOUT_POLL_INTERVAL", &d.TimeoutPollInterval))
	add(durationEnv("STALE_SWEEP_INTERVAL", &d.StaleSweepInterval))
	add(durationEnv("STALE_SWEEP_GRACE", &d.StaleSweepGrace))
	add(durationEnv("OPERATION_TIMEOUT", &d.OperationTimeout))

	rl := &cfg.RateLimit
	add(boolEnv("RATE_LIMIT_ENABLED", &rl.Enabled))
	add(floatEnv("RATE_LIMIT_RATE", &rl.Rate))
	add(intEnv("RATE_LIMIT_BURST", &rl.Burst))
	add(durationEnv("RATE_LIMIT_TTL", &rl.TTL))
	add(intEnv("RATE_LIMIT_MAX_BUCKETS", &rl.MaxBuckets))

	add(intEnv("DEBUG_PORT", &cfg.Debug.Port))
	stringEnv("DEBUG_USER", &cfg.Debug.User)
	stringEnv("DEBUG_PASSWORD", &cfg.Debug.Pass)

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&d.OfferTTL, "offer-ttl", d.OfferTTL, "rider response deadline")
	fs.IntVar(&d.MaxAttempts, "max-attempts", d.MaxAttempts, "offers per delivery before manual intervention")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Debug.Port < 0 || c.Debug.Port > 65535 {
		return fmt.Errorf("invalid debug port: %d", c.Debug.Port)
	}
	d := c.Dispatch
	if d.OfferTTL <= 0 {
		return fmt.Errorf("invalid offer ttl: %s", d.OfferTTL)
	}
	if d.MaxAttempts < 1 {
		return fmt.Errorf("invalid max attempts: %d", d.MaxAttempts)
	}
	if d.RadiusKm <= 0 || d.CandidateLimit <= 0 {
		return fmt.Errorf("invalid search window: radius=%v limit=%d", d.RadiusKm, d.CandidateLimit)
	}
	if d.LockTTL <= 0 || d.TimeoutLockTTL <= 0 {
		return fmt.Errorf("invalid lock ttl: %s/%s", d.LockTTL, d.TimeoutLockTTL)
	}
	if d.TimeoutPollInterval <= 0 {
		return fmt.Errorf("invalid timeout poll interval: %s", d.TimeoutPollInterval)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func stringEnv(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func intEnv(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func floatEnv(key string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func boolEnv(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func durationEnv(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
