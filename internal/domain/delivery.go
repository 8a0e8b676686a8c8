package domain

import "time"

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Valid checks that the point lies within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Delivery is a job picked up at a store and dropped off at a customer.
type Delivery struct {
	ID             string
	StoreID        string
	Status         DeliveryStatus
	PickupAddress  string
	Pickup         Point
	DropoffAddress string
	Dropoff        Point
	CustomerPhone  string
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Dashboard holds aggregate counts over current statuses.
type Dashboard struct {
	ActiveDeliveries  int64
	PendingDeliveries int64
	AvailableRiders   int64
	PendingOffers     int64
}
