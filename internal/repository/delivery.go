package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
)

const deliveryColumns = `id, store_id, status,
	pickup_address, pickup_lat, pickup_lon,
	dropoff_address, dropoff_lat, dropoff_lon,
	customer_phone, note, created_at, updated_at`

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db querier
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID, &d.StoreID, &d.Status,
		&d.PickupAddress, &d.Pickup.Lat, &d.Pickup.Lon,
		&d.DropoffAddress, &d.Dropoff.Lat, &d.Dropoff.Lon,
		&d.CustomerPhone, &d.Note, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a delivery. Timestamps are filled from the database.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.Delivery) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO deliveries (id, store_id, status,
            pickup_address, pickup_lat, pickup_lon,
            dropoff_address, dropoff_lat, dropoff_lon,
            customer_phone, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at
    `, d.ID, d.StoreID, string(d.Status),
		d.PickupAddress, d.Pickup.Lat, d.Pickup.Lon,
		d.DropoffAddress, d.Dropoff.Lat, d.Dropoff.Lon,
		d.CustomerPhone, d.Note,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflictf("delivery %s already exists", d.ID)
		}
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// Get - returns delivery by its ID, or nil if there is none.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s: %w", id, err)
	}
	return d, nil
}

// ListByStatus returns deliveries in the given status, oldest first.
// A non-positive limit returns all of them.
func (r *DeliveryRepo) ListByStatus(ctx context.Context, status domain.DeliveryStatus, limit int) ([]domain.Delivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE status = $1 ORDER BY created_at, id`
	args := []any{string(status)}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateStatus moves the delivery from one status to another. It reports
// false when the delivery is missing or no longer in the from status.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, id string, from, to domain.DeliveryStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update delivery %s status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// CountByStatus counts deliveries in the given status.
func (r *DeliveryRepo) CountByStatus(ctx context.Context, status domain.DeliveryStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM deliveries WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deliveries: %w", err)
	}
	return n, nil
}
