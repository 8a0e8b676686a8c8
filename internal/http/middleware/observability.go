package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/metrics"
)

// Observability records request metrics and writes one access log line per request.
func Observability(logger logx.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// route pattern keeps label cardinality bounded
			path := pathPattern(r)
			took := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			code := strconv.Itoa(status)

			if m != nil {
				m.Requests.WithLabelValues(r.Method, path, code).Inc()
				m.Duration.WithLabelValues(r.Method, path, code).Observe(took.Seconds())
			}

			fields := []logx.Field{
				logx.Event("http_request"),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", status),
				logx.Duration("duration", took),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, logx.String("request_id", id))
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
