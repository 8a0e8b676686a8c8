package handlers

import (
	"time"

	"service-courier-dispatch/internal/domain"
)

type pointDTO struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type createDeliveryRequest struct {
	ID             string   `json:"id,omitempty" validate:"omitempty,max=64"`
	StoreID        string   `json:"store_id" validate:"required,max=64"`
	PickupAddress  string   `json:"pickup_address" validate:"required,max=500"`
	Pickup         pointDTO `json:"pickup"`
	DropoffAddress string   `json:"dropoff_address" validate:"required,max=500"`
	Dropoff        pointDTO `json:"dropoff"`
	CustomerPhone  string   `json:"customer_phone,omitempty"`
	Note           string   `json:"note,omitempty" validate:"max=500"`
}

type deliveryDTO struct {
	ID             string                `json:"id"`
	StoreID        string                `json:"store_id"`
	Status         domain.DeliveryStatus `json:"status"`
	PickupAddress  string                `json:"pickup_address"`
	Pickup         pointDTO              `json:"pickup"`
	DropoffAddress string                `json:"dropoff_address"`
	Dropoff        pointDTO              `json:"dropoff"`
	CustomerPhone  string                `json:"customer_phone,omitempty"`
	Note           string                `json:"note,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type dispatchResultDTO struct {
	Success bool   `json:"success"`
	OfferID string `json:"offer_id,omitempty"`
	RiderID string `json:"rider_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type createDeliveryResponse struct {
	Delivery deliveryDTO       `json:"delivery"`
	Dispatch dispatchResultDTO `json:"dispatch"`
}

type progressDeliveryRequest struct {
	Status domain.DeliveryStatus `json:"status" validate:"required,oneof=PICKED_UP DELIVERED CANCELLED"`
}

type createRiderRequest struct {
	Name     string             `json:"name" validate:"required,max=100"`
	Phone    string             `json:"phone" validate:"required"`
	Status   domain.RiderStatus `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE OFFLINE"`
	Location *pointDTO          `json:"location,omitempty"`
}

type riderDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	Status    domain.RiderStatus `json:"status"`
	Location  *pointDTO          `json:"location,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type riderStatusRequest struct {
	Status domain.RiderStatus `json:"status" validate:"required,oneof=AVAILABLE OFFLINE"`
}

type createOfferRequest struct {
	DeliveryID string `json:"delivery_id" validate:"required"`
	RiderID    string `json:"rider_id" validate:"required"`
	TTLSeconds int    `json:"ttl_seconds,omitempty" validate:"gte=0,lte=3600"`
}

type offerDTO struct {
	ID           string             `json:"id"`
	DeliveryID   string             `json:"delivery_id"`
	RiderID      string             `json:"rider_id"`
	Status       domain.OfferStatus `json:"status"`
	ExpiresAt    time.Time          `json:"expires_at"`
	RespondedAt  *time.Time         `json:"responded_at,omitempty"`
	AttemptCount int                `json:"attempt_count"`
	Manual       bool               `json:"manual"`
	CreatedAt    time.Time          `json:"created_at"`
}

type adminReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type adminRiderRequest struct {
	RiderID string `json:"rider_id" validate:"required"`
	Reason  string `json:"reason" validate:"max=500"`
}

type candidateDTO struct {
	RiderID    string  `json:"rider_id"`
	DistanceKm float64 `json:"distance_km"`
}

type dashboardDTO struct {
	ActiveDeliveries  int64 `json:"active_deliveries"`
	PendingDeliveries int64 `json:"pending_deliveries"`
	AvailableRiders   int64 `json:"available_riders"`
	PendingOffers     int64 `json:"pending_offers"`
}
