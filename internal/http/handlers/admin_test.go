package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
)

func TestAdminHandler_CancelOffer(t *testing.T) {
	t.Parallel()

	uc := NewMockadminUsecase(newCtrl(t))
	uc.EXPECT().AdminCancel(gomock.Any(), "o1", "customer called").Return(sampleOffer(domain.OfferCancelledByAdmin), nil)
	uc.EXPECT().AdminCancel(gomock.Any(), "o2", "").Return(nil, apperr.Invalidf("offer o2 is EXPIRED and cannot be cancelled"))
	h := NewAdminHandler(logx.Nop(), uc)

	rr := httptest.NewRecorder()
	h.CancelOffer(rr, newRequest(http.MethodPost, "/admin/offers/o1/cancel", `{"reason":"customer called"}`, map[string]string{"id": "o1"}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"CANCELLED_BY_ADMIN"`)

	// no body at all
	rr = httptest.NewRecorder()
	h.CancelOffer(rr, newRequest(http.MethodPost, "/admin/offers/o2/cancel", "", map[string]string{"id": "o2"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminHandler_ReassignAndAssign(t *testing.T) {
	t.Parallel()

	manual := sampleOffer(domain.OfferPending)
	manual.RiderID = "r2"
	manual.Manual = true

	uc := NewMockadminUsecase(newCtrl(t))
	uc.EXPECT().AdminReassign(gomock.Any(), "d1", "r2", "rider sick").Return(manual, nil)
	uc.EXPECT().AdminAssign(gomock.Any(), "d1", "r2", "").Return(nil, apperr.Invalidf("delivery d1 is ASSIGNED, not PENDING"))
	h := NewAdminHandler(logx.Nop(), uc)
	params := map[string]string{"id": "d1"}

	rr := httptest.NewRecorder()
	h.Reassign(rr, newRequest(http.MethodPost, "/admin/deliveries/d1/reassign", `{"rider_id":"r2","reason":"rider sick"}`, params))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"manual":true`)

	rr = httptest.NewRecorder()
	h.Assign(rr, newRequest(http.MethodPost, "/admin/deliveries/d1/assign", `{"rider_id":"r2"}`, params))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Assign(rr, newRequest(http.MethodPost, "/admin/deliveries/d1/assign", `{"reason":"x"}`, params))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rider_id":"required"`)
}

func TestAdminHandler_DashboardNearbyExpire(t *testing.T) {
	t.Parallel()

	uc := NewMockadminUsecase(newCtrl(t))
	uc.EXPECT().Dashboard(gomock.Any()).Return(domain.Dashboard{ActiveDeliveries: 1, PendingDeliveries: 2, AvailableRiders: 3, PendingOffers: 4}, nil)
	uc.EXPECT().NearbyRidersForDelivery(gomock.Any(), "d1").Return([]domain.Candidate{{RiderID: "r1", DistanceKm: 1.25}}, nil)
	uc.EXPECT().ExpireStaleOffers(gomock.Any()).Return(int64(3), nil)
	h := NewAdminHandler(logx.Nop(), uc)

	rr := httptest.NewRecorder()
	h.Dashboard(rr, newRequest(http.MethodGet, "/admin/dashboard", "", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"active_deliveries":1,"pending_deliveries":2,"available_riders":3,"pending_offers":4}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.NearbyRiders(rr, newRequest(http.MethodGet, "/admin/deliveries/d1/nearby-riders", "", map[string]string{"id": "d1"}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"rider_id":"r1","distance_km":1.25}]`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ExpireStale(rr, newRequest(http.MethodPost, "/admin/offers/expire-stale", "", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"expired":3}`, rr.Body.String())
}
