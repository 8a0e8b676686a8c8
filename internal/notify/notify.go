// Package notify delivers rider and store notifications produced by offer
// transitions. Delivery is best effort: failures are logged, never returned
// to the transition that caused them.
package notify

import "context"

// Kind is the notification type.
type Kind string

// Notification kinds.
const (
	OfferCreated   Kind = "OFFER_CREATED"
	OfferAccepted  Kind = "OFFER_ACCEPTED"
	OfferRejected  Kind = "OFFER_REJECTED"
	OfferExpired   Kind = "OFFER_EXPIRED"
	DeliveryUpdate Kind = "DELIVERY_UPDATE"
)

// Notification is a message addressed to a rider or a store.
type Notification struct {
	Kind       Kind              `json:"type"`
	RiderID    string            `json:"rider_id,omitempty"`
	StoreID    string            `json:"store_id,omitempty"`
	DeliveryID string            `json:"delivery_id,omitempty"`
	OfferID    string            `json:"offer_id,omitempty"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
}

// Target returns the recipient id: the rider when set, otherwise the store.
func (n Notification) Target() string {
	if n.RiderID != "" {
		return n.RiderID
	}
	return n.StoreID
}

// Notifier sends notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// NewOfferCreated builds the message sent to a rider receiving an offer.
func NewOfferCreated(riderID, offerID, deliveryID string) Notification {
	return Notification{
		Kind:       OfferCreated,
		RiderID:    riderID,
		OfferID:    offerID,
		DeliveryID: deliveryID,
		Title:      "New delivery request",
		Body:       "You have a new delivery request. Please respond before it expires.",
		Data:       map[string]string{"offer_id": offerID, "delivery_id": deliveryID},
	}
}

// NewOfferAccepted builds the message sent to the store when a rider accepts.
func NewOfferAccepted(storeID, deliveryID, riderID string) Notification {
	return Notification{
		Kind:       OfferAccepted,
		StoreID:    storeID,
		DeliveryID: deliveryID,
		Title:      "Delivery accepted",
		Body:       "A rider has accepted the delivery.",
		Data:       map[string]string{"delivery_id": deliveryID, "rider_id": riderID},
	}
}

// NewOfferRejected builds the message sent to the store when a rider rejects.
func NewOfferRejected(storeID, deliveryID string) Notification {
	return Notification{
		Kind:       OfferRejected,
		StoreID:    storeID,
		DeliveryID: deliveryID,
		Title:      "Delivery rejected",
		Body:       "The rider rejected the delivery. Looking for another rider.",
		Data:       map[string]string{"delivery_id": deliveryID},
	}
}

// NewOfferExpired builds the message sent to a rider whose offer timed out.
func NewOfferExpired(riderID, offerID, deliveryID string) Notification {
	return Notification{
		Kind:       OfferExpired,
		RiderID:    riderID,
		OfferID:    offerID,
		DeliveryID: deliveryID,
		Title:      "Offer expired",
		Body:       "The delivery request expired.",
		Data:       map[string]string{"offer_id": offerID, "delivery_id": deliveryID},
	}
}

// NewDeliveryUpdate builds the message sent to a rider whose assignment
// was changed by an administrator.
func NewDeliveryUpdate(riderID, deliveryID, reason string) Notification {
	return Notification{
		Kind:       DeliveryUpdate,
		RiderID:    riderID,
		DeliveryID: deliveryID,
		Title:      "Delivery updated",
		Body:       "Your delivery assignment was changed by an administrator.",
		Data:       map[string]string{"delivery_id": deliveryID, "reason": reason},
	}
}
