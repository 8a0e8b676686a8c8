package domain

import (
	"regexp"
	"time"
)

// Rider is a courier that can receive offers.
type Rider struct {
	ID        string
	Name      string
	Phone     string
	Status    RiderStatus
	Position  *Point
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Candidate is a rider returned by the geospatial locator.
type Candidate struct {
	RiderID    string
	DistanceKm float64
}

var rePhone = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidatePhone validates the phone number format.
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
