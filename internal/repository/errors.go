package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation   = "23505"
	pendingOfferIndex = "offers_one_pending_per_delivery"
)

// violatedUnique returns the constraint behind a unique key violation.
func violatedUnique(err error) (string, bool) {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) || pgerr.Code != uniqueViolation {
		return "", false
	}
	return pgerr.ConstraintName, true
}

// IsDuplicate reports a unique key violation on any constraint.
func IsDuplicate(err error) bool {
	_, ok := violatedUnique(err)
	return ok
}

// IsPendingOfferDuplicate reports a second PENDING offer for one delivery.
func IsPendingOfferDuplicate(err error) bool {
	c, ok := violatedUnique(err)
	return ok && c == pendingOfferIndex
}

// IsNotFound reports a single-row query that matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
