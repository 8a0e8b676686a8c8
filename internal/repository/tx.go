package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/ports/dispatchtx"
)

// TxRunner runs offer side effects in one database transaction.
type TxRunner struct {
	db *pgxpool.Pool
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *pgxpool.Pool) *TxRunner {
	return &TxRunner{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *TxRunner) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// rollback on panic and re-raise
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if err := fn(newTxRepo(tx)); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// TxRepo binds the repositories to one transaction.
type TxRepo struct {
	deliveries *DeliveryRepo
	riders     *RiderRepo
	offers     *OfferRepo
}

func newTxRepo(tx pgx.Tx) *TxRepo {
	return &TxRepo{
		deliveries: &DeliveryRepo{db: tx},
		riders:     &RiderRepo{db: tx},
		offers:     &OfferRepo{db: tx},
	}
}

// CreateOffer inserts an offer inside the transaction.
func (r *TxRepo) CreateOffer(ctx context.Context, o *domain.Offer) error {
	return r.offers.Create(ctx, o)
}

// TransitionOffer applies a conditional offer status change.
func (r *TxRepo) TransitionOffer(ctx context.Context, t domain.OfferTransition) (bool, error) {
	return r.offers.Transition(ctx, t)
}

// UpdateDeliveryStatus applies a conditional delivery status change.
func (r *TxRepo) UpdateDeliveryStatus(ctx context.Context, id string, from, to domain.DeliveryStatus) (bool, error) {
	return r.deliveries.UpdateStatus(ctx, id, from, to)
}

// UpdateRiderStatus applies a conditional rider status change.
func (r *TxRepo) UpdateRiderStatus(ctx context.Context, id string, from, to domain.RiderStatus) (bool, error) {
	return r.riders.UpdateStatus(ctx, id, from, to)
}

var _ dispatchtx.Repository = (*TxRepo)(nil)
