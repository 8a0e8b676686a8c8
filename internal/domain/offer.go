package domain

import "time"

// Offer is a time-boxed proposal of one delivery to one rider.
type Offer struct {
	ID           string
	DeliveryID   string
	RiderID      string
	Status       OfferStatus
	ExpiresAt    time.Time
	RespondedAt  *time.Time
	AttemptCount int
	Manual       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExpiredAt reports whether the deadline has passed at now.
func (o Offer) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// OfferTransition describes a conditional status change of an offer.
// The update only applies while the stored status still equals From.
type OfferTransition struct {
	OfferID     string
	From        OfferStatus
	To          OfferStatus
	RespondedAt *time.Time
}

// DispatchResult is the outcome of an automatic dispatch attempt.
// A failed dispatch is an expected outcome and carries a reason, not an error.
type DispatchResult struct {
	Success bool
	OfferID string
	RiderID string
	Error   string
}

// OfferFilter narrows an offer listing. Zero fields do not filter.
type OfferFilter struct {
	DeliveryID string
	RiderID    string
	Status     OfferStatus
	Limit      int
	Offset     int
}
