package handlers

import (
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/validation"
)

const defaultListLimit = 50

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	usecase  deliveryUsecase
	logger   logx.Logger
	validate *validatorv10.Validate
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{usecase: uc, logger: logger, validate: validation.New()}
}

// Create handles POST /deliveries. The delivery is stored and dispatched
// right away; a failed dispatch still answers 201 with the reason.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	d, res, err := h.usecase.CreateDelivery(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/deliveries/"+d.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, createDeliveryResponse{
		Delivery: deliveryToResponse(*d),
		Dispatch: dispatchResultToResponse(res),
	})
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.usecase.GetDelivery(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
}

// ListPending handles GET /deliveries/pending.
func (h *DeliveryHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultListLimit)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.usecase.ListPendingDeliveries(r.Context(), limit)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// Progress handles PATCH /deliveries/{id}/status.
func (h *DeliveryHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req progressDeliveryRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	d, err := h.usecase.ProgressDelivery(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
}

// Dispatch handles POST /deliveries/{id}/dispatch and reruns automatic
// matching for a pending delivery.
func (h *DeliveryHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, dispatchResultToResponse(h.usecase.Dispatch(r.Context(), id)))
}
