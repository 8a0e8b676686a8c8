package kafka

import (
	"strings"

	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/service/dispatch"
)

// DeliveryEventDTO is a delivery request published by the ordering side.
type DeliveryEventDTO struct {
	DeliveryID     string  `json:"delivery_id" validate:"required,max=64"`
	StoreID        string  `json:"store_id" validate:"required,max=64"`
	PickupAddress  string  `json:"pickup_address" validate:"required"`
	PickupLat      float64 `json:"pickup_lat" validate:"gte=-90,lte=90"`
	PickupLon      float64 `json:"pickup_lon" validate:"gte=-180,lte=180"`
	DropoffAddress string  `json:"dropoff_address" validate:"required"`
	DropoffLat     float64 `json:"dropoff_lat" validate:"gte=-90,lte=90"`
	DropoffLon     float64 `json:"dropoff_lon" validate:"gte=-180,lte=180"`
	CustomerPhone  string  `json:"customer_phone,omitempty"`
	Note           string  `json:"note,omitempty" validate:"max=500"`
}

// ToDomain converts DeliveryEventDTO to the dispatch input. The event id
// becomes the delivery id so that redelivered events stay idempotent.
func ToDomain(dto DeliveryEventDTO) dispatch.NewDelivery {
	return dispatch.NewDelivery{
		ID:             strings.TrimSpace(dto.DeliveryID),
		StoreID:        strings.TrimSpace(dto.StoreID),
		PickupAddress:  strings.TrimSpace(dto.PickupAddress),
		Pickup:         domain.Point{Lat: dto.PickupLat, Lon: dto.PickupLon},
		DropoffAddress: strings.TrimSpace(dto.DropoffAddress),
		Dropoff:        domain.Point{Lat: dto.DropoffLat, Lon: dto.DropoffLon},
		CustomerPhone:  strings.TrimSpace(dto.CustomerPhone),
		Note:           dto.Note,
	}
}
