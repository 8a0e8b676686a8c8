package dispatch

import (
	"context"
	"strings"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/logx"
)

// NewRider is the input for RegisterRider. An empty Status means OFFLINE.
type NewRider struct {
	Name     string
	Phone    string
	Status   domain.RiderStatus
	Position *domain.Point
}

// RegisterRider stores a rider and seeds the status cache and geo index.
func (s *Service) RegisterRider(ctx context.Context, in NewRider) (*domain.Rider, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalidf("name is required")
	}
	if !domain.ValidatePhone(in.Phone) {
		return nil, apperr.Invalidf("invalid phone")
	}
	status := in.Status
	if status == "" {
		status = domain.RiderOffline
	}
	if status != domain.RiderAvailable && status != domain.RiderOffline {
		return nil, apperr.Invalidf("new rider must be AVAILABLE or OFFLINE")
	}
	if in.Position != nil && !in.Position.Valid() {
		return nil, apperr.Invalidf("coordinates out of range")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r := &domain.Rider{
		ID:       s.newID(),
		Name:     name,
		Phone:    in.Phone,
		Status:   status,
		Position: in.Position,
	}
	if err := s.riders.Create(ctx, r); err != nil {
		return nil, txError("create rider", err)
	}
	s.cacheStatus(ctx, r.ID, r.Status)
	if r.Position != nil {
		if err := s.positions.UpdateLocation(ctx, r.ID, *r.Position); err != nil {
			s.logger.Warn("geo index update failed", logx.Event("geo_update_failed"), logx.String("rider_id", r.ID), logx.Err(err))
		}
	}
	s.logger.Info("rider registered", logx.Event("rider_registered"), logx.String("rider_id", r.ID))
	return r, nil
}

// GetRider returns one rider.
func (s *Service) GetRider(ctx context.Context, id string) (*domain.Rider, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.riders.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get rider", err)
	}
	if r == nil {
		return nil, apperr.NotFoundf("rider %s", id)
	}
	return r, nil
}

// ListRiders returns riders page by page.
func (s *Service) ListRiders(ctx context.Context, limit, offset int) ([]domain.Rider, error) {
	if limit < 0 || offset < 0 {
		return nil, apperr.Invalidf("limit and offset must not be negative")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.riders.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Dependency("list riders", err)
	}
	return out, nil
}

// SetRiderStatus lets a rider go online or offline. BUSY is only ever set by
// accepting an offer, and a busy rider cannot leave until the delivery ends.
func (s *Service) SetRiderStatus(ctx context.Context, id string, status domain.RiderStatus) (*domain.Rider, error) {
	if status != domain.RiderAvailable && status != domain.RiderOffline {
		return nil, apperr.Invalidf("status must be AVAILABLE or OFFLINE")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.riders.Get(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("get rider", err)
	}
	if r == nil {
		return nil, apperr.NotFoundf("rider %s", id)
	}
	if r.Status == domain.RiderBusy {
		return nil, apperr.Invalidf("rider %s has an active delivery", id)
	}

	ok, err := s.riders.UpdateStatus(ctx, id, r.Status, status)
	if err != nil {
		return nil, apperr.Dependency("set rider status", err)
	}
	if !ok {
		// an accept committed BUSY since the read
		return nil, apperr.Conflictf("rider %s status changed concurrently", id)
	}
	s.cacheStatus(ctx, id, status)

	s.logger.Info("rider status changed",
		logx.Event("rider_status_changed"),
		logx.String("rider_id", id),
		logx.String("from", string(r.Status)),
		logx.String("to", string(status)),
	)
	r.Status = status
	return r, nil
}

// UpdateRiderLocation records a rider position in the geo index and the
// record store.
func (s *Service) UpdateRiderLocation(ctx context.Context, id string, p domain.Point) error {
	if !p.Valid() {
		return apperr.Invalidf("coordinates out of range")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.riders.SetPosition(ctx, id, p); err != nil {
		return txError("set rider position", err)
	}
	return s.positions.UpdateLocation(ctx, id, p)
}

// RiderLocation returns the indexed position of a rider.
func (s *Service) RiderLocation(ctx context.Context, id string) (*domain.Point, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.positions.Location(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("location of rider %s", id)
	}
	return p, nil
}
