package dispatchtx

import (
	"context"

	"service-courier-dispatch/internal/domain"
)

// Repository holds the writes that must commit together with an offer
// transition. Status updates are conditional and report whether a row changed.
type Repository interface {
	CreateOffer(ctx context.Context, o *domain.Offer) error
	TransitionOffer(ctx context.Context, t domain.OfferTransition) (bool, error)
	UpdateDeliveryStatus(ctx context.Context, id string, from, to domain.DeliveryStatus) (bool, error)
	UpdateRiderStatus(ctx context.Context, id string, from, to domain.RiderStatus) (bool, error)
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
