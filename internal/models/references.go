package models

// ReferencesModel holds the agencies, routes, stops and trips an entry refers to by id.
type ReferencesModel struct {
	Agencies []AgencyReference `json:"agencies"`
	Routes   []Route           `json:"routes"`
	Stops    []Stop            `json:"stops"`
	Trips    []TripReference   `json:"trips"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Agencies: []AgencyReference{},
		Routes:   []Route{},
		Stops:    []Stop{},
		Trips:    []TripReference{},
	}
}
