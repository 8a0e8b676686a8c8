package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/domain"
)

const riderColumns = `id, name, phone, status, lat, lon, created_at, updated_at`

// RiderRepo represents rider repository.
type RiderRepo struct{ db querier }

// NewRiderRepo creates a new RiderRepo.
func NewRiderRepo(db *pgxpool.Pool) *RiderRepo { return &RiderRepo{db: db} }

func scanRider(row pgx.Row) (*domain.Rider, error) {
	var (
		r        domain.Rider
		lat, lon *float64
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Phone, &r.Status, &lat, &lon, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		r.Position = &domain.Point{Lat: *lat, Lon: *lon}
	}
	return &r, nil
}

// Create - creates a new rider.
func (r *RiderRepo) Create(ctx context.Context, rd *domain.Rider) error {
	var lat, lon *float64
	if rd.Position != nil {
		lat, lon = &rd.Position.Lat, &rd.Position.Lon
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO riders (id, name, phone, status, lat, lon) VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING created_at, updated_at`,
		rd.ID, rd.Name, rd.Phone, string(rd.Status), lat, lon,
	).Scan(&rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflictf("rider with phone %s already exists", rd.Phone)
		}
		return fmt.Errorf("create rider: %w", err)
	}
	return nil
}

// Get - returns rider by its ID, or nil if there is none.
func (r *RiderRepo) Get(ctx context.Context, id string) (*domain.Rider, error) {
	rd, err := scanRider(r.db.QueryRow(ctx, `SELECT `+riderColumns+` FROM riders WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rider %s: %w", id, err)
	}
	return rd, nil
}

// List returns riders ordered by name. If limit is not positive, returns the full list.
func (r *RiderRepo) List(ctx context.Context, limit, offset int) ([]domain.Rider, error) {
	q := `SELECT ` + riderColumns + ` FROM riders ORDER BY name, id`
	args := make([]any, 0, 2)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Rider, 0, max(limit, 0))
	for rows.Next() {
		rd, err := scanRider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rider: %w", err)
		}
		out = append(out, *rd)
	}
	return out, rows.Err()
}

// UpdateStatus moves the rider from one status to another. It reports false
// when the rider is missing or no longer in from.
func (r *RiderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.RiderStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders
        SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update rider %s status %s->%s: %w", id, from, to, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetPosition stores the last known rider position.
func (r *RiderRepo) SetPosition(ctx context.Context, id string, p domain.Point) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders
        SET lat = $2, lon = $3, updated_at = now()
        WHERE id = $1
    `, id, p.Lat, p.Lon)
	if err != nil {
		return fmt.Errorf("update rider %s position: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFoundf("rider %s", id)
	}
	return nil
}

// CountByStatus counts riders in the given status.
func (r *RiderRepo) CountByStatus(ctx context.Context, status domain.RiderStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM riders WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count riders: %w", err)
	}
	return n, nil
}
