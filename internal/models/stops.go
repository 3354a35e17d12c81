package models

type Stop struct {
	Code string  `json:"code"`
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

func NewStop(code, id, name string, lat, lon float64) Stop {
	return Stop{
		Code: code,
		ID:   id,
		Lat:  lat,
		Lon:  lon,
		Name: name,
	}
}

// NearbyStop is a stop and its straight-line distance in meters from the
// searched point.
type NearbyStop struct {
	Stop
	Distance float64 `json:"distance"`
}
