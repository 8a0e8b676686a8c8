package handlers

import (
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/validation"
)

// OfferHandler serves HTTP endpoints for offers and rider responses.
type OfferHandler struct {
	usecase  offerUsecase
	logger   logx.Logger
	validate *validatorv10.Validate
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(logger logx.Logger, uc offerUsecase) *OfferHandler {
	return &OfferHandler{usecase: uc, logger: logger, validate: validation.New()}
}

// Create handles POST /offers: an explicit offer of a delivery to a rider.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if ok := decodeJSON(h.logger, h.validate, w, r, &req); !ok {
		return
	}

	o, err := h.usecase.CreateOffer(r.Context(), req.DeliveryID, req.RiderID, time.Duration(req.TTLSeconds)*time.Second, 1)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/offers/"+o.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, offerToResponse(*o))
}

// Get handles GET /offers/{id}.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	o, err := h.usecase.GetOffer(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offerToResponse(*o))
}

// List handles GET /offers?delivery_id=&rider_id=&status=&limit=&offset=.
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
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
	q := r.URL.Query()

	list, err := h.usecase.ListOffers(r.Context(), domain.OfferFilter{
		DeliveryID: q.Get("delivery_id"),
		RiderID:    q.Get("rider_id"),
		Status:     domain.OfferStatus(q.Get("status")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offersToResponse(list))
}

// Accept handles POST /offers/{id}/accept.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, domain.OfferAccepted)
}

// Reject handles POST /offers/{id}/reject.
func (h *OfferHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, domain.OfferRejected)
}

func (h *OfferHandler) respond(w http.ResponseWriter, r *http.Request, decision domain.OfferStatus) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	o, err := h.usecase.Respond(r.Context(), id, decision)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, offerToResponse(*o))
}
