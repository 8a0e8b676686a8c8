package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-courier-dispatch/internal/config"
	"service-courier-dispatch/internal/http/debugserver"
	"service-courier-dispatch/internal/http/handlers"
	"service-courier-dispatch/internal/http/middleware"
	"service-courier-dispatch/internal/http/middleware/ratelimit"
	"service-courier-dispatch/internal/http/router"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/metrics"
)

type serverOut struct {
	dig.Out

	Main  *http.Server
	Debug *http.Server `name:"debug_server"`
}

func provideServers(cfg *config.Config, mux http.Handler, reg *prometheus.Registry) serverOut {
	out := serverOut{
		Main: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	if cfg.Debug.Port > 0 {
		out.Debug = &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Debug.Port),
			Handler: debugserver.Handler(debugserver.Config{
				User: cfg.Debug.User,
				Pass: cfg.Debug.Pass,
			}, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return out
}

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In

	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}

func provideMiddlewares(logger logx.Logger, m *metrics.HTTP, rl *ratelimit.Middleware) (router.Middlewares, router.Limited) {
	return router.Middlewares{middleware.Observability(logger, m)},
		router.Limited{rl.Handler()}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewRiderUsecase,
		handlers.NewRiderHandler,
		handlers.NewOfferUsecase,
		handlers.NewOfferHandler,
		handlers.NewAdminUsecase,
		handlers.NewAdminHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		provideMiddlewares,
		router.New,
		provideServers,
	)
}
