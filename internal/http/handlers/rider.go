package handlers

import (
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/validation"
)

// RiderHandler serves HTTP endpoints for rider resources.
type RiderHandler struct {
	usecase  riderUsecase
	logger   logx.Logger
	validate *validatorv10.Validate
}

// NewRiderHandler wires a riderUsecase into HTTP handlers.
func NewRiderHandler(logger logx.Logger, uc riderUsecase) *RiderHandler {
	return &RiderHandler{usecase: uc, logger: logger, validate: validation.New()}
}

// Create handles POST /riders.
func (h *RiderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRiderRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	rd, err := h.usecase.RegisterRider(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/riders/"+rd.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, riderToResponse(*rd))
}

// Get handles GET /riders/{id}.
func (h *RiderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	rd, err := h.usecase.GetRider(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, riderToResponse(*rd))
}

// List handles GET /riders.
func (h *RiderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultListLimit)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.usecase.ListRiders(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ridersToResponse(list))
}

// SetStatus handles PUT /riders/{id}/status.
func (h *RiderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req riderStatusRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	rd, err := h.usecase.SetRiderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, riderToResponse(*rd))
}

// UpdateLocation handles PUT /riders/{id}/location.
func (h *RiderHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req pointDTO
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	if err := h.usecase.UpdateRiderLocation(r.Context(), id, req.toModel()); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Location handles GET /riders/{id}/location.
func (h *RiderHandler) Location(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.usecase.RiderLocation(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pointToResponse(*p))
}

// PendingOffers handles GET /riders/{id}/offers.
func (h *RiderHandler) PendingOffers(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.usecase.PendingOffersForRider(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offersToResponse(list))
}
