package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-courier-dispatch/internal/http/handlers"
)

const requestTimeout = 5 * time.Second

// Middlewares are applied to every route in order.
type Middlewares []func(http.Handler) http.Handler

// Limited are applied to API routes only; health checks bypass them.
type Limited []func(http.Handler) http.Handler

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	h *handlers.Handlers,
	d *handlers.DeliveryHandler,
	rd *handlers.RiderHandler,
	o *handlers.OfferHandler,
	a *handlers.AdminHandler,
	mws Middlewares,
	limited Limited,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mws...)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))

	r.Group(func(r chi.Router) {
		r.Use(limited...)

		r.Route("/deliveries", func(r chi.Router) {
			r.Post("/", d.Create)
			r.Get("/pending", d.ListPending)
			r.Get("/{id}", d.Get)
			r.Patch("/{id}/status", d.Progress)
			r.Post("/{id}/dispatch", d.Dispatch)
		})

		r.Route("/riders", func(r chi.Router) {
			r.Post("/", rd.Create)
			r.Get("/", rd.List)
			r.Get("/{id}", rd.Get)
			r.Put("/{id}/status", rd.SetStatus)
			r.Put("/{id}/location", rd.UpdateLocation)
			r.Get("/{id}/location", rd.Location)
			r.Get("/{id}/offers", rd.PendingOffers)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Post("/", o.Create)
			r.Get("/", o.List)
			r.Get("/{id}", o.Get)
			r.Post("/{id}/accept", o.Accept)
			r.Post("/{id}/reject", o.Reject)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", a.Dashboard)
			r.Post("/offers/{id}/cancel", a.CancelOffer)
			r.Post("/offers/expire-stale", a.ExpireStale)
			r.Post("/deliveries/{id}/assign", a.Assign)
			r.Post("/deliveries/{id}/reassign", a.Reassign)
			r.Get("/deliveries/{id}/nearby-riders", a.NearbyRiders)
		})
	})

	r.NotFound(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(h.MethodNotAllowed))

	return r
}
