//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=handlers

package handlers

import (
	"context"
	"time"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/service/dispatch"
)

type deliveryUsecase interface {
	CreateDelivery(ctx context.Context, in dispatch.NewDelivery) (*domain.Delivery, domain.DispatchResult, error)
	GetDelivery(ctx context.Context, id string) (*domain.Delivery, error)
	ListPendingDeliveries(ctx context.Context, limit int) ([]domain.Delivery, error)
	ProgressDelivery(ctx context.Context, id string, next domain.DeliveryStatus) (*domain.Delivery, error)
	Dispatch(ctx context.Context, deliveryID string) domain.DispatchResult
}

// NewDeliveryUsecase wires the dispatch Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *dispatch.Service) deliveryUsecase {
	return svc
}

type riderUsecase interface {
	RegisterRider(ctx context.Context, in dispatch.NewRider) (*domain.Rider, error)
	GetRider(ctx context.Context, id string) (*domain.Rider, error)
	ListRiders(ctx context.Context, limit, offset int) ([]domain.Rider, error)
	SetRiderStatus(ctx context.Context, id string, status domain.RiderStatus) (*domain.Rider, error)
	UpdateRiderLocation(ctx context.Context, id string, p domain.Point) error
	RiderLocation(ctx context.Context, id string) (*domain.Point, error)
	PendingOffersForRider(ctx context.Context, riderID string) ([]domain.Offer, error)
}

// NewRiderUsecase wires the dispatch Service into a riderUsecase.
func NewRiderUsecase(svc *dispatch.Service) riderUsecase {
	return svc
}

type offerUsecase interface {
	CreateOffer(ctx context.Context, deliveryID, riderID string, ttl time.Duration, attempt int) (*domain.Offer, error)
	GetOffer(ctx context.Context, id string) (*domain.Offer, error)
	ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error)
	Respond(ctx context.Context, offerID string, decision domain.OfferStatus) (*domain.Offer, error)
}

// NewOfferUsecase wires the dispatch Service into an offerUsecase.
func NewOfferUsecase(svc *dispatch.Service) offerUsecase {
	return svc
}

type adminUsecase interface {
	AdminCancel(ctx context.Context, offerID, reason string) (*domain.Offer, error)
	AdminReassign(ctx context.Context, deliveryID, newRiderID, reason string) (*domain.Offer, error)
	AdminAssign(ctx context.Context, deliveryID, riderID, reason string) (*domain.Offer, error)
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	NearbyRidersForDelivery(ctx context.Context, deliveryID string) ([]domain.Candidate, error)
	ExpireStaleOffers(ctx context.Context) (int64, error)
}

// NewAdminUsecase wires the dispatch Service into an adminUsecase.
func NewAdminUsecase(svc *dispatch.Service) adminUsecase {
	return svc
}
