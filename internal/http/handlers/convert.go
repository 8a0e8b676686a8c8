package handlers

import (
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/service/dispatch"
)

func (p pointDTO) toModel() domain.Point { return domain.Point{Lat: p.Lat, Lon: p.Lon} }

func pointToResponse(p domain.Point) pointDTO { return pointDTO{Lat: p.Lat, Lon: p.Lon} }

func (r createDeliveryRequest) toModel() dispatch.NewDelivery {
	return dispatch.NewDelivery{
		ID:             r.ID,
		StoreID:        r.StoreID,
		PickupAddress:  r.PickupAddress,
		Pickup:         r.Pickup.toModel(),
		DropoffAddress: r.DropoffAddress,
		Dropoff:        r.Dropoff.toModel(),
		CustomerPhone:  r.CustomerPhone,
		Note:           r.Note,
	}
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:             d.ID,
		StoreID:        d.StoreID,
		Status:         d.Status,
		PickupAddress:  d.PickupAddress,
		Pickup:         pointToResponse(d.Pickup),
		DropoffAddress: d.DropoffAddress,
		Dropoff:        pointToResponse(d.Dropoff),
		CustomerPhone:  d.CustomerPhone,
		Note:           d.Note,
		CreatedAt:      d.CreatedAt,
	}
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func dispatchResultToResponse(res domain.DispatchResult) dispatchResultDTO {
	return dispatchResultDTO{
		Success: res.Success,
		OfferID: res.OfferID,
		RiderID: res.RiderID,
		Error:   res.Error,
	}
}

func (r createRiderRequest) toModel() dispatch.NewRider {
	in := dispatch.NewRider{Name: r.Name, Phone: r.Phone, Status: r.Status}
	if r.Location != nil {
		p := r.Location.toModel()
		in.Position = &p
	}
	return in
}

func riderToResponse(r domain.Rider) riderDTO {
	out := riderDTO{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Position != nil {
		p := pointToResponse(*r.Position)
		out.Location = &p
	}
	return out
}

func ridersToResponse(list []domain.Rider) []riderDTO {
	out := make([]riderDTO, 0, len(list))
	for _, r := range list {
		out = append(out, riderToResponse(r))
	}
	return out
}

func offerToResponse(o domain.Offer) offerDTO {
	return offerDTO{
		ID:           o.ID,
		DeliveryID:   o.DeliveryID,
		RiderID:      o.RiderID,
		Status:       o.Status,
		ExpiresAt:    o.ExpiresAt,
		RespondedAt:  o.RespondedAt,
		AttemptCount: o.AttemptCount,
		Manual:       o.Manual,
		CreatedAt:    o.CreatedAt,
	}
}

func offersToResponse(list []domain.Offer) []offerDTO {
	out := make([]offerDTO, 0, len(list))
	for _, o := range list {
		out = append(out, offerToResponse(o))
	}
	return out
}

func candidatesToResponse(list []domain.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(list))
	for _, c := range list {
		out = append(out, candidateDTO{RiderID: c.RiderID, DistanceKm: c.DistanceKm})
	}
	return out
}

func dashboardToResponse(d domain.Dashboard) dashboardDTO {
	return dashboardDTO{
		ActiveDeliveries:  d.ActiveDeliveries,
		PendingDeliveries: d.PendingDeliveries,
		AvailableRiders:   d.AvailableRiders,
		PendingOffers:     d.PendingOffers,
	}
}
