package handlers

import (
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/validation"
)

// AdminHandler serves the operator endpoints.
type AdminHandler struct {
	usecase  adminUsecase
	logger   logx.Logger
	validate *validatorv10.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(logger logx.Logger, uc adminUsecase) *AdminHandler {
	return &AdminHandler{usecase: uc, logger: logger, validate: validation.New()}
}

// CancelOffer handles POST /admin/offers/{id}/cancel. The body is optional.
func (h *AdminHandler) CancelOffer(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req adminReasonRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
			return
		}
	}

	o, err := h.usecase.AdminCancel(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offerToResponse(*o))
}

// Reassign handles POST /admin/deliveries/{id}/reassign.
func (h *AdminHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req adminRiderRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	o, err := h.usecase.AdminReassign(r.Context(), id, req.RiderID, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offerToResponse(*o))
}

// Assign handles POST /admin/deliveries/{id}/assign.
func (h *AdminHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req adminRiderRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	o, err := h.usecase.AdminAssign(r.Context(), id, req.RiderID, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offerToResponse(*o))
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.usecase.Dashboard(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, dashboardToResponse(d))
}

// NearbyRiders handles GET /admin/deliveries/{id}/nearby-riders.
func (h *AdminHandler) NearbyRiders(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.usecase.NearbyRidersForDelivery(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, candidatesToResponse(list))
}

// ExpireStale handles POST /admin/offers/expire-stale.
func (h *AdminHandler) ExpireStale(w http.ResponseWriter, r *http.Request) {
	n, err := h.usecase.ExpireStaleOffers(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]int64{"expired": n})
}
