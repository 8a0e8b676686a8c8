package dispatch

import (
	"context"
	"fmt"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/notify"
	"service-courier-dispatch/internal/ports/dispatchtx"
)

// AdminCancel cancels a pending or accepted offer. Cancelling an accepted
// offer puts the delivery back to PENDING and frees the rider.
func (s *Service) AdminCancel(ctx context.Context, offerID, reason string) (*domain.Offer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := offerLockKey(offerID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	if lk == nil {
		s.lockBusy("admin_cancel", key)
		return nil, apperr.Conflictf("offer %s is being processed", offerID)
	}
	defer s.release(ctx, lk)

	o, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, apperr.Dependency("get offer", err)
	}
	if o == nil {
		return nil, apperr.NotFoundf("offer %s", offerID)
	}
	if !o.Status.CanTransition(domain.OfferCancelledByAdmin) {
		return nil, apperr.Invalidf("offer %s is %s and cannot be cancelled", o.ID, o.Status)
	}

	if err := s.cancelOffer(ctx, o, reason); err != nil {
		return nil, err
	}
	return o, nil
}

// cancelOffer moves o to CANCELLED_BY_ADMIN. The caller holds the offer lock.
func (s *Service) cancelOffer(ctx context.Context, o *domain.Offer, reason string) error {
	wasAccepted := o.Status == domain.OfferAccepted
	freed := false

	err := s.tx.WithTx(ctx, func(tx dispatchtx.Repository) error {
		ok, err := tx.TransitionOffer(ctx, domain.OfferTransition{
			OfferID: o.ID, From: o.Status, To: domain.OfferCancelledByAdmin,
		})
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		if !wasAccepted {
			return nil
		}
		ok, err = tx.UpdateDeliveryStatus(ctx, o.DeliveryID, domain.DeliveryAssigned, domain.DeliveryPending)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Invalidf("delivery %s is already in progress", o.DeliveryID)
		}
		freed, err = tx.UpdateRiderStatus(ctx, o.RiderID, domain.RiderBusy, domain.RiderAvailable)
		return err
	})
	if err != nil {
		return txError("cancel offer", err)
	}

	s.transitioned(o, domain.OfferCancelledByAdmin)
	o.Status = domain.OfferCancelledByAdmin

	if freed {
		s.cacheStatus(ctx, o.RiderID, domain.RiderAvailable)
	}
	s.logger.Info("offer cancelled by admin",
		logx.Event("admin_cancel"),
		logx.String("offer_id", o.ID),
		logx.String("delivery_id", o.DeliveryID),
		logx.String("reason", reason),
		logx.Bool("was_accepted", wasAccepted),
	)
	s.notify(ctx, notify.NewDeliveryUpdate(o.RiderID, o.DeliveryID, reason))
	return nil
}

// AdminReassign moves an accepted delivery to another rider: the current
// offer is cancelled with its side effects undone and a manual offer is
// created for the new rider.
func (s *Service) AdminReassign(ctx context.Context, deliveryID, newRiderID, reason string) (*domain.Offer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, deliveryID)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", deliveryID)
	}

	accepted, err := s.offers.FindByDelivery(ctx, deliveryID, domain.OfferAccepted)
	if err != nil {
		return nil, apperr.Dependency("find accepted offer", err)
	}
	if len(accepted) == 0 {
		return nil, apperr.Invalidf("delivery %s has no accepted offer", deliveryID)
	}
	current := accepted[0]
	if current.RiderID == newRiderID {
		return nil, apperr.Invalidf("rider %s already holds delivery %s", newRiderID, deliveryID)
	}

	if err := s.requireAvailableRider(ctx, newRiderID); err != nil {
		return nil, err
	}

	key := offerLockKey(current.ID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	if lk == nil {
		s.lockBusy("admin_reassign", key)
		return nil, apperr.Conflictf("offer %s is being processed", current.ID)
	}
	defer s.release(ctx, lk)

	o, err := s.offers.Get(ctx, current.ID)
	if err != nil {
		return nil, apperr.Dependency("get offer", err)
	}
	if o == nil || o.Status != domain.OfferAccepted {
		return nil, fmt.Errorf("%w: offer %s is no longer accepted", apperr.ErrState, current.ID)
	}

	if err := s.cancelOffer(ctx, o, reason); err != nil {
		return nil, err
	}

	next, err := s.createOffer(ctx, offerParams{
		deliveryID: deliveryID,
		riderID:    newRiderID,
		ttl:        adminOfferTTL,
		attempt:    1,
		manual:     true,
	})
	if err != nil {
		s.logger.Error("reassign left delivery pending",
			logx.Event("admin_reassign_failed"),
			logx.String("delivery_id", deliveryID),
			logx.String("rider_id", newRiderID),
			logx.Err(err),
		)
		return nil, err
	}

	s.logger.Info("delivery reassigned",
		logx.Event("admin_reassign"),
		logx.String("delivery_id", deliveryID),
		logx.String("from_rider_id", o.RiderID),
		logx.String("to_rider_id", newRiderID),
		logx.String("reason", reason),
	)
	return next, nil
}

// AdminAssign force-offers a pending delivery to a rider, cancelling any
// pending offer first.
func (s *Service) AdminAssign(ctx context.Context, deliveryID, riderID, reason string) (*domain.Offer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, deliveryID)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", deliveryID)
	}
	if d.Status != domain.DeliveryPending {
		return nil, apperr.Invalidf("delivery %s is %s, not PENDING", d.ID, d.Status)
	}
	if err := s.requireAvailableRider(ctx, riderID); err != nil {
		return nil, err
	}

	if err := s.cancelPendingOffersForDelivery(ctx, deliveryID, reason); err != nil {
		return nil, err
	}

	o, err := s.createOffer(ctx, offerParams{
		deliveryID: deliveryID,
		riderID:    riderID,
		ttl:        adminOfferTTL,
		attempt:    1,
		manual:     true,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("delivery assigned by admin",
		logx.Event("admin_assign"),
		logx.String("delivery_id", deliveryID),
		logx.String("rider_id", riderID),
		logx.String("offer_id", o.ID),
		logx.String("reason", reason),
	)
	return o, nil
}

// cancelPendingOffersForDelivery cancels every pending offer of the delivery,
// each under its own offer lock.
func (s *Service) cancelPendingOffersForDelivery(ctx context.Context, deliveryID, reason string) error {
	pending, err := s.offers.FindByDelivery(ctx, deliveryID, domain.OfferPending)
	if err != nil {
		return apperr.Dependency("find pending offers", err)
	}

	for _, p := range pending {
		if err := s.cancelPendingOffer(ctx, p.ID, reason); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) cancelPendingOffer(ctx context.Context, offerID, reason string) error {
	key := offerLockKey(offerID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return err
	}
	if lk == nil {
		s.lockBusy("cancel_pending", key)
		return apperr.Conflictf("offer %s is being processed", offerID)
	}
	defer s.release(ctx, lk)

	o, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return apperr.Dependency("get offer", err)
	}
	if o == nil || o.Status != domain.OfferPending {
		return nil
	}
	return s.cancelOffer(ctx, o, reason)
}

func (s *Service) requireAvailableRider(ctx context.Context, riderID string) error {
	r, err := s.riders.Get(ctx, riderID)
	if err != nil {
		return apperr.Dependency("get rider", err)
	}
	if r == nil {
		return apperr.NotFoundf("rider %s", riderID)
	}
	if r.Status != domain.RiderAvailable {
		return fmt.Errorf("rider %s is %s: %w", r.ID, r.Status, errRiderUnavailable)
	}
	return nil
}

// Dashboard returns aggregate counts over current statuses.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		out domain.Dashboard
		err error
	)
	if out.ActiveDeliveries, err = s.deliveries.CountByStatus(ctx, domain.DeliveryAssigned); err != nil {
		return domain.Dashboard{}, apperr.Dependency("count deliveries", err)
	}
	if out.PendingDeliveries, err = s.deliveries.CountByStatus(ctx, domain.DeliveryPending); err != nil {
		return domain.Dashboard{}, apperr.Dependency("count deliveries", err)
	}
	if out.AvailableRiders, err = s.riders.CountByStatus(ctx, domain.RiderAvailable); err != nil {
		return domain.Dashboard{}, apperr.Dependency("count riders", err)
	}
	if out.PendingOffers, err = s.offers.CountByStatus(ctx, domain.OfferPending); err != nil {
		return domain.Dashboard{}, apperr.Dependency("count offers", err)
	}
	return out, nil
}

// NearbyRidersForDelivery lists available riders around the pickup point
// with a wider radius than automatic matching uses.
func (s *Service) NearbyRidersForDelivery(ctx context.Context, deliveryID string) ([]domain.Candidate, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, deliveryID)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", deliveryID)
	}
	return s.locator.Nearby(ctx, d.Pickup.Lat, d.Pickup.Lon, s.cfg.NearbyRadiusKm, s.cfg.CandidateLimit)
}
