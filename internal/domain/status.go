package domain

type (
	// DeliveryStatus is the lifecycle status of a delivery.
	DeliveryStatus string
	// RiderStatus is the availability of a rider.
	RiderStatus string
	// OfferStatus is the state of an offer.
	OfferStatus string
)

// Delivery statuses.
const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

// Rider statuses.
const (
	RiderAvailable RiderStatus = "AVAILABLE"
	RiderBusy      RiderStatus = "BUSY"
	RiderOffline   RiderStatus = "OFFLINE"
)

// Offer statuses. Everything except OfferPending is terminal for rider-driven
// transitions; ACCEPTED can still be cancelled by an admin.
const (
	OfferPending          OfferStatus = "PENDING"
	OfferAccepted         OfferStatus = "ACCEPTED"
	OfferRejected         OfferStatus = "REJECTED"
	OfferExpired          OfferStatus = "EXPIRED"
	OfferCancelledByAdmin OfferStatus = "CANCELLED_BY_ADMIN"
)

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryPending, DeliveryAssigned, DeliveryPickedUp, DeliveryDelivered, DeliveryCancelled,
}

var allowedRiderStatuses = [...]RiderStatus{
	RiderAvailable, RiderBusy, RiderOffline,
}

var allowedOfferStatuses = [...]OfferStatus{
	OfferPending, OfferAccepted, OfferRejected, OfferExpired, OfferCancelledByAdmin,
}

// Valid checks if the DeliveryStatus is known.
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the RiderStatus is known.
func (s RiderStatus) Valid() bool {
	for _, v := range allowedRiderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the OfferStatus is known.
func (s OfferStatus) Valid() bool {
	for _, v := range allowedOfferStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no rider or timer may move the offer any further.
func (s OfferStatus) Terminal() bool {
	return s != OfferPending && s.Valid()
}

// Decision reports whether s is an allowed rider response.
func (s OfferStatus) Decision() bool {
	return s == OfferAccepted || s == OfferRejected
}

// offerTransitions lists every legal offer transition.
var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferPending:  {OfferAccepted, OfferRejected, OfferExpired, OfferCancelledByAdmin},
	OfferAccepted: {OfferCancelledByAdmin},
}

// CanTransition reports whether an offer may move from s to next.
func (s OfferStatus) CanTransition(next OfferStatus) bool {
	for _, v := range offerTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Progress reports whether a delivery may be moved from s to next by the
// out-of-core progress flow (pickup, drop-off, cancellation).
func (s DeliveryStatus) Progress(next DeliveryStatus) bool {
	switch next {
	case DeliveryPickedUp:
		return s == DeliveryAssigned
	case DeliveryDelivered:
		return s == DeliveryPickedUp
	case DeliveryCancelled:
		return s == DeliveryPending || s == DeliveryAssigned
	default:
		return false
	}
}
