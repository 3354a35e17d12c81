package models

type Route struct {
	ID                string `json:"id"`
	AgencyID          string `json:"agencyId"`
	ShortName         string `json:"shortName"`
	LongName          string `json:"longName"`
	Mode              string `json:"mode"`
	NullSafeShortName string `json:"nullSafeShortName"`
}

// NewRoute builds a route reference. NullSafeShortName falls back to the long
// name for routes without a short name.
func NewRoute(id, agencyID, shortName, longName, mode string) Route {
	nullSafeShortName := shortName
	if nullSafeShortName == "" {
		nullSafeShortName = longName
	}
	return Route{
		ID:                id,
		AgencyID:          agencyID,
		ShortName:         shortName,
		LongName:          longName,
		Mode:              mode,
		NullSafeShortName: nullSafeShortName,
	}
}
