package dispatch

import (
	"context"
	"errors"
	"strings"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/ports/dispatchtx"
)

// NewDelivery is the input for CreateDelivery. ID is optional; when set,
// creating the same delivery twice returns the stored one without
// dispatching again.
type NewDelivery struct {
	ID             string
	StoreID        string
	PickupAddress  string
	Pickup         domain.Point
	DropoffAddress string
	Dropoff        domain.Point
	CustomerPhone  string
	Note           string
}

func (n NewDelivery) validate() error {
	switch {
	case strings.TrimSpace(n.StoreID) == "":
		return apperr.Invalidf("store id is required")
	case strings.TrimSpace(n.PickupAddress) == "" || strings.TrimSpace(n.DropoffAddress) == "":
		return apperr.Invalidf("pickup and dropoff addresses are required")
	case !n.Pickup.Valid():
		return apperr.Invalidf("pickup coordinates out of range")
	case !n.Dropoff.Valid():
		return apperr.Invalidf("dropoff coordinates out of range")
	case n.CustomerPhone != "" && !domain.ValidatePhone(n.CustomerPhone):
		return apperr.Invalidf("invalid customer phone")
	}
	return nil
}

// CreateDelivery stores a new PENDING delivery and runs automatic dispatch
// for it. The dispatch result is informational: a delivery without an offer
// stays PENDING.
func (s *Service) CreateDelivery(ctx context.Context, in NewDelivery) (*domain.Delivery, domain.DispatchResult, error) {
	if err := in.validate(); err != nil {
		return nil, domain.DispatchResult{}, err
	}
	id := in.ID
	if id == "" {
		id = s.newID()
	}

	d := &domain.Delivery{
		ID:             id,
		StoreID:        strings.TrimSpace(in.StoreID),
		Status:         domain.DeliveryPending,
		PickupAddress:  strings.TrimSpace(in.PickupAddress),
		Pickup:         in.Pickup,
		DropoffAddress: strings.TrimSpace(in.DropoffAddress),
		Dropoff:        in.Dropoff,
		CustomerPhone:  in.CustomerPhone,
		Note:           in.Note,
	}

	opCtx, cancel := s.withTimeout(ctx)
	err := s.deliveries.Create(opCtx, d)
	if errors.Is(err, apperr.ErrConflict) && in.ID != "" {
		existing, getErr := s.deliveries.Get(opCtx, in.ID)
		cancel()
		if getErr != nil || existing == nil {
			return nil, domain.DispatchResult{}, apperr.Dependency("get delivery", errors.Join(err, getErr))
		}
		s.logger.Info("delivery already exists", logx.Event("delivery_duplicate"), logx.String("delivery_id", in.ID))
		return existing, domain.DispatchResult{}, nil
	}
	cancel()
	if err != nil {
		return nil, domain.DispatchResult{}, txError("create delivery", err)
	}

	s.logger.Info("delivery created",
		logx.Event("delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("store_id", d.StoreID),
	)

	res := s.Dispatch(ctx, d.ID)
	return d, res, nil
}

// GetDelivery returns one delivery.
func (s *Service) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", id)
	}
	return d, nil
}

// ListPendingDeliveries returns deliveries waiting for a rider, oldest first.
func (s *Service) ListPendingDeliveries(ctx context.Context, limit int) ([]domain.Delivery, error) {
	if limit < 0 {
		return nil, apperr.Invalidf("limit must not be negative")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.deliveries.ListByStatus(ctx, domain.DeliveryPending, limit)
	if err != nil {
		return nil, apperr.Dependency("list deliveries", err)
	}
	return out, nil
}

// ProgressDelivery moves a delivery through pickup, drop-off or
// cancellation. Finishing or cancelling an assigned delivery frees its rider;
// cancelling a pending one cancels its pending offers.
func (s *Service) ProgressDelivery(ctx context.Context, id string, next domain.DeliveryStatus) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", id)
	}
	if !d.Status.Progress(next) {
		return nil, apperr.Invalidf("delivery %s cannot move from %s to %s", id, d.Status, next)
	}

	switch {
	case d.Status == domain.DeliveryPending:
		// only CANCELLED is reachable from PENDING
		if err := s.cancelPendingOffersForDelivery(ctx, id, "delivery cancelled"); err != nil {
			return nil, err
		}
		if err := s.moveDelivery(ctx, d, next); err != nil {
			return nil, err
		}

	case next == domain.DeliveryDelivered || next == domain.DeliveryCancelled:
		riderID, err := s.assignedRider(ctx, id)
		if err != nil {
			return nil, err
		}
		freed := false
		err = s.tx.WithTx(ctx, func(tx dispatchtx.Repository) error {
			ok, err := tx.UpdateDeliveryStatus(ctx, id, d.Status, next)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflictf("delivery %s changed concurrently", id)
			}
			if riderID == "" {
				return nil
			}
			freed, err = tx.UpdateRiderStatus(ctx, riderID, domain.RiderBusy, domain.RiderAvailable)
			return err
		})
		if err != nil {
			return nil, txError("progress delivery", err)
		}
		if freed {
			s.cacheStatus(ctx, riderID, domain.RiderAvailable)
		}

	default:
		if err := s.moveDelivery(ctx, d, next); err != nil {
			return nil, err
		}
	}

	s.logger.Info("delivery progressed",
		logx.Event("delivery_progressed"),
		logx.String("delivery_id", id),
		logx.String("from", string(d.Status)),
		logx.String("to", string(next)),
	)
	d.Status = next
	return d, nil
}

func (s *Service) moveDelivery(ctx context.Context, d *domain.Delivery, next domain.DeliveryStatus) error {
	ok, err := s.deliveries.UpdateStatus(ctx, d.ID, d.Status, next)
	if err != nil {
		return apperr.Dependency("update delivery", err)
	}
	if !ok {
		return apperr.Conflictf("delivery %s changed concurrently", d.ID)
	}
	return nil
}

// assignedRider returns the rider of the delivery's accepted offer, or ""
// if there is none.
func (s *Service) assignedRider(ctx context.Context, deliveryID string) (string, error) {
	accepted, err := s.offers.FindByDelivery(ctx, deliveryID, domain.OfferAccepted)
	if err != nil {
		return "", apperr.Dependency("find accepted offer", err)
	}
	if len(accepted) == 0 {
		return "", nil
	}
	return accepted[0].RiderID, nil
}
