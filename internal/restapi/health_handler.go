package restapi

import (
	"net/http"
	"time"

	"raptor.onebusaway.org/internal/models"
)

type healthData struct {
	Status      string `json:"status"`
	ServiceDate string `json:"serviceDate"`
	LastUpdated string `json:"lastUpdated"`
	Stops       int    `json:"stops"`
	Patterns    int    `json:"patterns"`
	Trips       int    `json:"trips"`
}

// healthHandler reports whether a timetable is loaded. It is not behind the API key check.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	if api.GtfsManager == nil || api.GtfsManager.Network() == nil {
		api.unavailableResponse(w, r)
		return
	}

	stats := api.GtfsManager.Network().Stats()
	api.sendResponse(w, r, models.NewOKResponse(healthData{
		Status:      "ok",
		ServiceDate: stats.ServiceDate,
		LastUpdated: api.GtfsManager.LastUpdated().Format(time.RFC3339),
		Stops:       stats.Stops,
		Patterns:    stats.Patterns,
		Trips:       stats.Trips,
	}))
}
