package dispatch

import (
	"context"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
)

// HandleTimeout is run when an offer's deadline job fires. A busy offer lock
// means an accept, reject or cancel is in flight; that path wins and the job
// is skipped without retry. Re-checking the status after locking makes
// repeated deliveries of the same job harmless.
func (s *Service) HandleTimeout(ctx context.Context, job delayq.Job) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := offerLockKey(job.OfferID)
	lk, err := s.locker.Acquire(ctx, key, s.cfg.TimeoutLockTTL)
	if err != nil {
		return err
	}
	if lk == nil {
		s.lockBusy("timeout", key)
		return nil
	}
	defer s.release(ctx, lk)

	o, err := s.offers.Get(ctx, job.OfferID)
	if err != nil {
		return apperr.Dependency("get offer", err)
	}
	if o == nil {
		s.logger.Warn("timeout for unknown offer", logx.Event("timeout_offer_missing"), logx.String("offer_id", job.OfferID))
		return nil
	}
	if o.Status != domain.OfferPending {
		s.logger.Debug("timeout skipped: offer already resolved",
			logx.Event("timeout_skipped"),
			logx.String("offer_id", o.ID),
			logx.String("status", string(o.Status)),
		)
		return nil
	}

	if err := s.expireOffer(ctx, o); err != nil {
		return err
	}
	if o.Status != domain.OfferExpired {
		// lost to the sweeper or another instance
		return nil
	}

	s.redispatch(ctx, o.DeliveryID, o.AttemptCount)
	return nil
}
