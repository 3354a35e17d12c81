package models

// Place is the start or end of a leg. Stop fields are empty for coordinates.
type Place struct {
	Name     string  `json:"name"`
	StopID   string  `json:"stopId,omitempty"`
	StopCode string  `json:"stopCode,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Leg is one part of an itinerary. Times are Unix milliseconds; durations and
// distances are seconds and meters.
type Leg struct {
	Mode       string  `json:"mode"`
	TransitLeg bool    `json:"transitLeg"`
	From       Place   `json:"from"`
	To         Place   `json:"to"`
	StartTime  int64   `json:"startTime"`
	EndTime    int64   `json:"endTime"`
	Duration   int     `json:"duration"`
	Distance   float64 `json:"distance"`

	RouteID  string `json:"routeId,omitempty"`
	TripID   string `json:"tripId,omitempty"`
	Headsign string `json:"headsign,omitempty"`

	// Direction is the compass direction of a walk.
	Direction   string   `json:"direction,omitempty"`
	LegGeometry Polyline `json:"legGeometry"`
}

type Itinerary struct {
	StartTime       int64 `json:"startTime"`
	EndTime         int64 `json:"endTime"`
	Duration        int   `json:"duration"`
	WalkTime        int   `json:"walkTime"`
	TransitTime     int   `json:"transitTime"`
	WaitingTime     int   `json:"waitingTime"`
	Transfers       int   `json:"transfers"`
	GeneralizedCost int   `json:"generalizedCost"`
	Legs            []Leg `json:"legs"`
}

// Plan is the entry of a plan response.
type Plan struct {
	ServiceDate  int64       `json:"serviceDate"`
	From         Place       `json:"from"`
	To           Place       `json:"to"`
	Profile      string      `json:"profile"`
	ArriveBy     bool        `json:"arriveBy"`
	SearchWindow int         `json:"searchWindow"`
	Iterations   int         `json:"iterations"`
	Itineraries  []Itinerary `json:"itineraries"`
}
