package models

type TripReference struct {
	ID           string `json:"id"`
	RouteID      string `json:"routeId"`
	TripHeadsign string `json:"tripHeadsign"`
	ServiceDate  int64  `json:"serviceDate"`
}

func NewTripReference(id, routeID, headsign string, serviceDate int64) TripReference {
	return TripReference{
		ID:           id,
		RouteID:      routeID,
		TripHeadsign: headsign,
		ServiceDate:  serviceDate,
	}
}
