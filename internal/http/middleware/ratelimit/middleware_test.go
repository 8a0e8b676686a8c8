package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/testutil"
)

type stubLimiter struct {
	allow bool
	keys  []string
}

func (s *stubLimiter) Allow(key string) bool {
	s.keys = append(s.keys, key)
	return s.allow
}

func TestMiddleware_Allows_RequestPassesToNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	lim := &stubLimiter{allow: true}
	h := New(logx.Nop(), nil, lim).Handler()(next)

	r := httptest.NewRequest(http.MethodPost, "http://example/offers/o1/accept", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	r.Header.Set(RiderHeader, "r-7")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, nextCalled)
	require.Equal(t, []string{"rider:r-7"}, lim.keys)
}

func TestMiddleware_Blocks_Returns429AndIncrementsCounter(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not be called")
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})
	rec := testutil.NewRecorder()

	h := New(rec.Logger(), counter, &stubLimiter{allow: false}).Handler()(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/deliveries/pending", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
	require.Equal(t, float64(1), promtestutil.ToFloat64(counter))
	assert.True(t, rec.HasEvent("rate_limited"))
}

func TestMiddleware_WithKey(t *testing.T) {
	t.Parallel()

	lim := NewTokenBucketLimiter(newFakeClock(time.Unix(0, 0)), Config{Rate: 1, Burst: 1})
	h := New(logx.Nop(), nil, lim).
		WithKey(func(*http.Request) string { return "global" }).
		Handler()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	for i, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		r := httptest.NewRequest(http.MethodGet, "/riders", nil)
		r.RemoteAddr = fmt.Sprintf("10.0.0.%d:1", i+1)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, want, w.Code, "request %d", i)
	}
}

func TestRiderOrIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		remote string
		rider  string
		want   string
	}{
		{name: "rider header", remote: "1.2.3.4:1", rider: " r-1 ", want: "rider:r-1"},
		{name: "host port", remote: "1.2.3.4:1", want: "ip:1.2.3.4"},
		{name: "bare remote addr", remote: "not-a-hostport", want: "ip:not-a-hostport"},
		{name: "empty remote addr", remote: "", want: "ip:unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
			r.RemoteAddr = tc.remote
			if tc.rider != "" {
				r.Header.Set(RiderHeader, tc.rider)
			}
			assert.Equal(t, tc.want, RiderOrIP(r))
		})
	}
}
