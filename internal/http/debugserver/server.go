// Package debugserver exposes pprof and Prometheus metrics on a separate port.
package debugserver

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const realm = "debug"

// Config holds the basic auth credentials for remote callers. Loopback
// callers are let in without them; with no credentials set, only loopback is.
type Config struct {
	User string
	Pass string
}

// Handler serves /metrics from g and pprof under /debug/pprof/.
func Handler(cfg Config, g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(restrict(cfg))
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Mount("/debug", chimw.Profiler())
	return r
}

// restrict lets loopback peers through and puts everyone else behind basic auth.
func restrict(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := http.Handler(http.HandlerFunc(deny))
		if cfg.User != "" && cfg.Pass != "" {
			authed = chimw.BasicAuth(realm, map[string]string{cfg.User: cfg.Pass})(next)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func fromLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
