package dispatch

import (
	"context"
	"errors"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
)

const noRidersReason = "no nearby riders available"

// Dispatch offers the delivery to the closest available rider. A failed
// dispatch is an expected outcome reported in the result, never an error:
// the delivery simply stays PENDING.
func (s *Service) Dispatch(ctx context.Context, deliveryID string) domain.DispatchResult {
	return s.DispatchToNextRider(ctx, deliveryID, nil, 1)
}

// DispatchToNextRider is Dispatch with riders in exclude skipped and the new
// offer created with the given attempt number.
func (s *Service) DispatchToNextRider(ctx context.Context, deliveryID string, exclude []string, attempt int) domain.DispatchResult {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.dispatchNext(ctx, deliveryID, exclude, attempt)
}

func (s *Service) dispatchNext(ctx context.Context, deliveryID string, exclude []string, attempt int) domain.DispatchResult {
	if attempt < 1 {
		attempt = 1
	}
	log := s.logger.With(logx.String("delivery_id", deliveryID), logx.Int("attempt", attempt))

	d, err := s.deliveries.Get(ctx, deliveryID)
	if err != nil {
		return s.dispatchFailed(log, "error", "load delivery: "+err.Error())
	}
	if d == nil {
		return s.dispatchFailed(log, "error", "delivery not found")
	}
	if d.Status != domain.DeliveryPending {
		return s.dispatchFailed(log, "error", "delivery is not pending")
	}

	// widen the query so that excluded riders do not eat the whole page
	limit := s.cfg.CandidateLimit + len(exclude)
	candidates, err := s.locator.Nearby(ctx, d.Pickup.Lat, d.Pickup.Lon, s.cfg.RadiusKm, limit)
	if err != nil {
		return s.dispatchFailed(log, "error", "locate riders: "+err.Error())
	}
	candidates = withoutRiders(candidates, exclude)
	if len(candidates) > s.cfg.CandidateLimit {
		candidates = candidates[:s.cfg.CandidateLimit]
	}
	if len(candidates) == 0 {
		return s.dispatchFailed(log, "no_candidates", noRidersReason)
	}

	for _, c := range candidates {
		o, err := s.createOffer(ctx, offerParams{
			deliveryID: d.ID,
			riderID:    c.RiderID,
			ttl:        s.cfg.OfferTTL,
			attempt:    attempt,
		})
		if err == nil {
			s.metrics.DispatchOutcomes.WithLabelValues("offer_created").Inc()
			return domain.DispatchResult{Success: true, OfferID: o.ID, RiderID: o.RiderID}
		}
		if errors.Is(err, errRiderUnavailable) {
			log.Debug("stale candidate skipped",
				logx.Event("dispatch_candidate_stale"),
				logx.String("rider_id", c.RiderID),
			)
			continue
		}
		return s.dispatchFailed(log, "error", err.Error())
	}
	return s.dispatchFailed(log, "no_candidates", noRidersReason)
}

func (s *Service) dispatchFailed(log logx.Logger, outcome, reason string) domain.DispatchResult {
	s.metrics.DispatchOutcomes.WithLabelValues(outcome).Inc()
	log.Warn("dispatch failed", logx.Event("dispatch_failed"), logx.String("reason", reason))
	return domain.DispatchResult{Success: false, Error: reason}
}

func withoutRiders(cands []domain.Candidate, exclude []string) []domain.Candidate {
	if len(exclude) == 0 {
		return cands
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := cands[:0:0]
	for _, c := range cands {
		if _, ok := skip[c.RiderID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// redispatch continues the chain after an offer ended without acceptance.
// attempt is the attempt number of the offer that just ended.
func (s *Service) redispatch(ctx context.Context, deliveryID string, attempt int) {
	log := s.logger.With(logx.String("delivery_id", deliveryID), logx.Int("attempt", attempt))

	if attempt >= s.cfg.MaxAttempts {
		s.metrics.ChainExhausted.Inc()
		log.Warn("dispatch chain exhausted: max attempts reached",
			logx.Event("dispatch_chain_exhausted"),
			logx.Int("max_attempts", s.cfg.MaxAttempts),
		)
		return
	}

	exclude, err := s.offers.RiderIDsByDelivery(ctx, deliveryID)
	if err != nil {
		log.Error("redispatch aborted", logx.Event("redispatch_failed"), logx.Err(err))
		return
	}

	res := s.dispatchNext(ctx, deliveryID, exclude, attempt+1)
	if !res.Success {
		s.metrics.ChainExhausted.Inc()
		log.Warn("dispatch chain stopped: delivery left pending",
			logx.Event("dispatch_chain_exhausted"),
			logx.String("reason", res.Error),
		)
		return
	}
	log.Info("delivery redispatched",
		logx.Event("delivery_redispatched"),
		logx.String("offer_id", res.OfferID),
		logx.String("rider_id", res.RiderID),
		logx.Int("next_attempt", attempt+1),
	)
}
