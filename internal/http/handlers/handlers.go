package handlers

import (
	"net/http"

	"service-courier-dispatch/internal/logx"
)

// Handlers serves the service-level routes shared by every API group.
type Handlers struct {
	Logger logx.Logger
}

func New(logger logx.Logger) *Handlers {
	return &Handlers{Logger: logger}
}

// Ping answers GET /ping with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead answers HEAD /healthcheck for load balancer checks.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}

// MethodNotAllowed keeps 405 responses in the same JSON error shape as the rest of the API.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusMethodNotAllowed, "method not allowed")
}
