package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
)

const offerColumns = `id, delivery_id, rider_id, status, expires_at, responded_at,
	attempt_count, manual, created_at, updated_at`

// OfferRepo represents offer repository.
type OfferRepo struct{ db querier }

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(db *pgxpool.Pool) *OfferRepo { return &OfferRepo{db: db} }

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(&o.ID, &o.DeliveryID, &o.RiderID, &o.Status, &o.ExpiresAt, &o.RespondedAt,
		&o.AttemptCount, &o.Manual, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]domain.Offer, error) {
	defer rows.Close()
	out := make([]domain.Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Create inserts an offer. A second pending offer for the same delivery
// violates the partial unique index and yields apperr.ErrConflict.
func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO offers (id, delivery_id, rider_id, status, expires_at, attempt_count, manual)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at
    `, o.ID, o.DeliveryID, o.RiderID, string(o.Status), o.ExpiresAt, o.AttemptCount, o.Manual,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if IsPendingOfferDuplicate(err) {
			return apperr.Conflictf("delivery %s already has a pending offer", o.DeliveryID)
		}
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

// Get - returns offer by its ID, or nil if there is none.
func (r *OfferRepo) Get(ctx context.Context, id string) (*domain.Offer, error) {
	o, err := scanOffer(r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer %s: %w", id, err)
	}
	return o, nil
}

// FindByDelivery returns the delivery's offers in the given status, newest first.
func (r *OfferRepo) FindByDelivery(ctx context.Context, deliveryID string, status domain.OfferStatus) ([]domain.Offer, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+offerColumns+`
        FROM offers
        WHERE delivery_id = $1 AND status = $2
        ORDER BY created_at DESC, id
    `, deliveryID, string(status))
	if err != nil {
		return nil, fmt.Errorf("find offers of delivery %s: %w", deliveryID, err)
	}
	return collectOffers(rows)
}

// List returns offers matching f, newest first.
func (r *OfferRepo) List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.DeliveryID != "" {
		add("delivery_id = $%d", f.DeliveryID)
	}
	if f.RiderID != "" {
		add("rider_id = $%d", f.RiderID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}

	q := `SELECT ` + offerColumns + ` FROM offers`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return collectOffers(rows)
}

// Transition applies t only while the offer is still in t.From.
func (r *OfferRepo) Transition(ctx context.Context, t domain.OfferTransition) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE offers
        SET status = $3,
            responded_at = COALESCE($4, responded_at),
            updated_at = now()
        WHERE id = $1 AND status = $2
    `, t.OfferID, string(t.From), string(t.To), t.RespondedAt)
	if err != nil {
		return false, fmt.Errorf("transition offer %s %s->%s: %w", t.OfferID, t.From, t.To, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ExpireStale moves every pending offer whose deadline is before cutoff
// to EXPIRED and returns how many were changed.
func (r *OfferRepo) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE offers
        SET status = $1, updated_at = now()
        WHERE status = $2 AND expires_at < $3
    `, string(domain.OfferExpired), string(domain.OfferPending), cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale offers: %w", err)
	}
	return ct.RowsAffected(), nil
}

// RiderIDsByDelivery returns every rider that ever held an offer for the delivery.
func (r *OfferRepo) RiderIDsByDelivery(ctx context.Context, deliveryID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT rider_id FROM offers WHERE delivery_id = $1`, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("riders of delivery %s: %w", deliveryID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountByStatus counts offers in the given status.
func (r *OfferRepo) CountByStatus(ctx context.Context, status domain.OfferStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM offers WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return n, nil
}
