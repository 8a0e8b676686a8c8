package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
	"service-courier-dispatch/internal/notify"
	"service-courier-dispatch/internal/ports/dispatchtx"
)

// errRiderUnavailable marks a create that failed only because the picked
// rider is no longer AVAILABLE. The matcher moves on to the next candidate.
var errRiderUnavailable = fmt.Errorf("%w: rider is not available", apperr.ErrInvalid)

// errLostRace is returned inside a transaction when a conditional update
// found the row already moved by someone else.
var errLostRace = fmt.Errorf("%w: offer was resolved concurrently", apperr.ErrState)

type offerParams struct {
	deliveryID string
	riderID    string
	ttl        time.Duration
	attempt    int
	manual     bool
}

// CreateOffer proposes a delivery to a rider. ttl <= 0 uses the configured
// offer TTL; the timeout job is armed for that deadline.
func (s *Service) CreateOffer(ctx context.Context, deliveryID, riderID string, ttl time.Duration, attempt int) (*domain.Offer, error) {
	if deliveryID == "" || riderID == "" {
		return nil, apperr.Invalidf("delivery id and rider id are required")
	}
	if ttl <= 0 {
		ttl = s.cfg.OfferTTL
	}
	if attempt < 1 {
		attempt = 1
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.createOffer(ctx, offerParams{deliveryID: deliveryID, riderID: riderID, ttl: ttl, attempt: attempt})
}

// createOffer holds the delivery dispatch lock across the pending check and
// the insert, so two creators cannot both see "no pending offer".
func (s *Service) createOffer(ctx context.Context, p offerParams) (*domain.Offer, error) {
	key := deliveryLockKey(p.deliveryID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	if lk == nil {
		s.lockBusy("create_offer", key)
		return nil, apperr.Conflictf("delivery %s is being dispatched", p.deliveryID)
	}
	defer s.release(ctx, lk)

	d, err := s.deliveries.Get(ctx, p.deliveryID)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", p.deliveryID)
	}
	if d.Status != domain.DeliveryPending {
		return nil, apperr.Invalidf("delivery %s is %s, not PENDING", d.ID, d.Status)
	}

	r, err := s.riders.Get(ctx, p.riderID)
	if err != nil {
		return nil, apperr.Dependency("get rider", err)
	}
	if r == nil {
		return nil, apperr.NotFoundf("rider %s", p.riderID)
	}
	if r.Status != domain.RiderAvailable {
		return nil, fmt.Errorf("rider %s is %s: %w", r.ID, r.Status, errRiderUnavailable)
	}

	pending, err := s.offers.FindByDelivery(ctx, d.ID, domain.OfferPending)
	if err != nil {
		return nil, apperr.Dependency("find pending offers", err)
	}
	if len(pending) > 0 {
		return nil, apperr.Conflictf("delivery %s already has a pending offer", d.ID)
	}

	now := s.now()
	o := &domain.Offer{
		ID:           s.newID(),
		DeliveryID:   d.ID,
		RiderID:      r.ID,
		Status:       domain.OfferPending,
		ExpiresAt:    now.Add(p.ttl),
		AttemptCount: p.attempt,
		Manual:       p.manual,
	}
	if err := s.offers.Create(ctx, o); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, apperr.Dependency("create offer", err)
	}

	if !p.manual {
		job := delayq.Job{OfferID: o.ID, DeliveryID: o.DeliveryID, AttemptCount: o.AttemptCount}
		if err := s.scheduler.Schedule(ctx, p.ttl, job); err != nil {
			s.abandonOffer(ctx, o)
			return nil, apperr.Dependency("arm offer timeout", err)
		}
	}

	s.metrics.OffersCreated.Inc()
	s.logger.Info("offer created",
		logx.Event("offer_created"),
		logx.String("offer_id", o.ID),
		logx.String("delivery_id", o.DeliveryID),
		logx.String("rider_id", o.RiderID),
		logx.Int("attempt", o.AttemptCount),
		logx.Bool("manual", o.Manual),
		logx.Time("expires_at", o.ExpiresAt),
	)
	s.notify(ctx, notify.NewOfferCreated(o.RiderID, o.ID, o.DeliveryID))
	return o, nil
}

// abandonOffer expires an offer whose timeout could not be armed; a pending
// offer without a timer would block the delivery forever.
func (s *Service) abandonOffer(ctx context.Context, o *domain.Offer) {
	_, err := s.offers.Transition(context.WithoutCancel(ctx), domain.OfferTransition{
		OfferID: o.ID, From: domain.OfferPending, To: domain.OfferExpired,
	})
	s.logger.Error("offer abandoned: timeout not armed",
		logx.Event("offer_abandoned"),
		logx.String("offer_id", o.ID),
		logx.String("delivery_id", o.DeliveryID),
		logx.Err(err),
	)
}

// Accept is Respond with ACCEPTED.
func (s *Service) Accept(ctx context.Context, offerID string) (*domain.Offer, error) {
	return s.Respond(ctx, offerID, domain.OfferAccepted)
}

// Reject is Respond with REJECTED.
func (s *Service) Reject(ctx context.Context, offerID string) (*domain.Offer, error) {
	return s.Respond(ctx, offerID, domain.OfferRejected)
}

// Respond records a rider decision on a pending offer. A response after the
// deadline expires the offer and fails with apperr.ErrExpired whatever the
// decision was.
func (s *Service) Respond(ctx context.Context, offerID string, decision domain.OfferStatus) (*domain.Offer, error) {
	if !decision.Decision() {
		return nil, apperr.Invalidf("decision must be ACCEPTED or REJECTED, got %q", decision)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := offerLockKey(offerID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	if lk == nil {
		s.lockBusy("respond", key)
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
	if o.Status != domain.OfferPending {
		return nil, fmt.Errorf("%w: offer %s is already %s", apperr.ErrState, o.ID, o.Status)
	}

	now := s.now()
	if o.ExpiredAt(now) {
		if err := s.expireOffer(ctx, o); err != nil {
			return nil, err
		}
		if o.Status == domain.OfferExpired {
			s.redispatch(ctx, o.DeliveryID, o.AttemptCount)
		}
		return nil, fmt.Errorf("%w: offer %s expired at %s", apperr.ErrExpired, o.ID, o.ExpiresAt.Format(time.RFC3339))
	}

	if decision == domain.OfferAccepted {
		return s.accept(ctx, o, now)
	}
	return s.reject(ctx, o, now)
}

func (s *Service) accept(ctx context.Context, o *domain.Offer, now time.Time) (*domain.Offer, error) {
	d, err := s.deliveries.Get(ctx, o.DeliveryID)
	if err != nil {
		return nil, apperr.Dependency("get delivery", err)
	}
	if d == nil {
		return nil, apperr.NotFoundf("delivery %s", o.DeliveryID)
	}
	if d.Status != domain.DeliveryPending {
		return nil, apperr.Invalidf("delivery %s is %s, not PENDING", d.ID, d.Status)
	}
	r, err := s.riders.Get(ctx, o.RiderID)
	if err != nil {
		return nil, apperr.Dependency("get rider", err)
	}
	if r == nil {
		return nil, apperr.NotFoundf("rider %s", o.RiderID)
	}
	if r.Status != domain.RiderAvailable {
		return nil, fmt.Errorf("rider %s is %s: %w", r.ID, r.Status, errRiderUnavailable)
	}

	err = s.tx.WithTx(ctx, func(tx dispatchtx.Repository) error {
		ok, err := tx.TransitionOffer(ctx, domain.OfferTransition{
			OfferID: o.ID, From: domain.OfferPending, To: domain.OfferAccepted, RespondedAt: &now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		ok, err = tx.UpdateDeliveryStatus(ctx, d.ID, domain.DeliveryPending, domain.DeliveryAssigned)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Invalidf("delivery %s is no longer PENDING", d.ID)
		}
		// the read above is only a fast path; another accept for the same
		// rider may have committed since
		ok, err = tx.UpdateRiderStatus(ctx, r.ID, domain.RiderAvailable, domain.RiderBusy)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("rider %s is no longer AVAILABLE: %w", r.ID, errRiderUnavailable)
		}
		return nil
	})
	if err != nil {
		return nil, txError("accept offer", err)
	}

	s.transitioned(o, domain.OfferAccepted)
	o.Status = domain.OfferAccepted
	o.RespondedAt = &now

	s.cacheStatus(ctx, r.ID, domain.RiderBusy)
	s.notify(ctx, notify.NewOfferAccepted(d.StoreID, d.ID, r.ID))
	return o, nil
}

func (s *Service) reject(ctx context.Context, o *domain.Offer, now time.Time) (*domain.Offer, error) {
	ok, err := s.offers.Transition(ctx, domain.OfferTransition{
		OfferID: o.ID, From: domain.OfferPending, To: domain.OfferRejected, RespondedAt: &now,
	})
	if err != nil {
		return nil, apperr.Dependency("reject offer", err)
	}
	if !ok {
		return nil, errLostRace
	}

	s.transitioned(o, domain.OfferRejected)
	o.Status = domain.OfferRejected
	o.RespondedAt = &now

	if d, err := s.deliveries.Get(ctx, o.DeliveryID); err == nil && d != nil {
		s.notify(ctx, notify.NewOfferRejected(d.StoreID, d.ID))
	}

	// still under the offer lock
	s.redispatch(ctx, o.DeliveryID, o.AttemptCount)
	return o, nil
}

// expireOffer moves a pending offer to EXPIRED. Losing the conditional
// update to another path is not an error: the offer is terminal either way.
func (s *Service) expireOffer(ctx context.Context, o *domain.Offer) error {
	ok, err := s.offers.Transition(ctx, domain.OfferTransition{
		OfferID: o.ID, From: domain.OfferPending, To: domain.OfferExpired,
	})
	if err != nil {
		return apperr.Dependency("expire offer", err)
	}
	if !ok {
		return nil
	}
	s.transitioned(o, domain.OfferExpired)
	o.Status = domain.OfferExpired
	s.notify(ctx, notify.NewOfferExpired(o.RiderID, o.ID, o.DeliveryID))
	return nil
}

// txError keeps domain errors from a transaction as they are and marks the
// rest as dependency failures.
func txError(op string, err error) error {
	for _, known := range []error{apperr.ErrInvalid, apperr.ErrConflict, apperr.ErrNotFound, apperr.ErrState, apperr.ErrExpired, apperr.ErrDependency} {
		if errors.Is(err, known) {
			return err
		}
	}
	return apperr.Dependency(op, err)
}

// GetOffer returns one offer.
func (s *Service) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.offers.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get offer", err)
	}
	if o == nil {
		return nil, apperr.NotFoundf("offer %s", id)
	}
	return o, nil
}

// ListOffers returns offers matching the filter, newest first.
func (s *Service) ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalidf("unknown offer status %q", f.Status)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apperr.Invalidf("limit and offset must not be negative")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.offers.List(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list offers", err)
	}
	return out, nil
}

// PendingOffersForRider returns the rider's offers still waiting for an answer.
func (s *Service) PendingOffersForRider(ctx context.Context, riderID string) ([]domain.Offer, error) {
	return s.ListOffers(ctx, domain.OfferFilter{RiderID: riderID, Status: domain.OfferPending})
}

// ExpireStaleOffers expires pending offers more than StaleGrace past their
// deadline. It does not redispatch; it only catches offers whose timeout job
// was lost, and the grace keeps it off offers the timeout path still owns.
func (s *Service) ExpireStaleOffers(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.offers.ExpireStale(ctx, s.now().Add(-s.cfg.StaleGrace))
	if err != nil {
		return 0, apperr.Dependency("expire stale offers", err)
	}
	if n > 0 {
		s.metrics.StaleOffersExpired.Add(float64(n))
		s.metrics.OfferTransitions.WithLabelValues(string(domain.OfferExpired)).Add(float64(n))
		s.logger.Warn("stale offers expired by sweeper", logx.Event("stale_offers_expired"), logx.Int64("count", n))
	}
	return n, nil
}
