package restapi

import (
	"fmt"
	"net/http"

	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/utils"
)

const (
	defaultStopSearchRadius = 500
	maxStopSearchRadius     = 10000
	defaultMaxStopCount     = 100
	maxStopCount            = 250
)

// stopsForLocationHandler lists the stops around a point, nearest first. It is
// the lookup clients use to pick fromStop and toStop for a plan request.
func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	lat, fieldErrors := utils.ParseFloatParam(queryParams, "lat", nil)
	lon, _ := utils.ParseFloatParam(queryParams, "lon", fieldErrors)
	radius, _ := utils.ParseFloatParam(queryParams, "radius", fieldErrors)
	maxCount, _ := utils.ParseIntParam(queryParams, "maxCount", defaultMaxStopCount, fieldErrors)

	for _, key := range []string{"lat", "lon"} {
		if queryParams.Get(key) == "" {
			fieldErrors[key] = append(fieldErrors[key], "is required")
		}
	}
	if len(fieldErrors) == 0 {
		utils.ValidateCoordinate(lat, lon, "lat", "lon", fieldErrors)
	}
	if queryParams.Get("radius") == "" {
		radius = defaultStopSearchRadius
	} else if radius <= 0 || radius > maxStopSearchRadius {
		fieldErrors["radius"] = append(fieldErrors["radius"], fmt.Sprintf("must be between 0 and %d meters", maxStopSearchRadius))
	}
	if maxCount < 1 || maxCount > maxStopCount {
		fieldErrors["maxCount"] = append(fieldErrors["maxCount"], fmt.Sprintf("must be between 1 and %d", maxStopCount))
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	network := api.GtfsManager.Network()
	if network == nil {
		api.unavailableResponse(w, r)
		return
	}

	// One extra stop tells whether the limit cut the result.
	nearby := network.StopsNear(lat, lon, radius, maxCount+1)
	limitExceeded := len(nearby) > maxCount
	if limitExceeded {
		nearby = nearby[:maxCount]
	}

	results := make([]models.NearbyStop, 0, len(nearby))
	for _, candidate := range nearby {
		stop := candidate.Stop
		results = append(results, models.NearbyStop{
			Stop:     models.NewStop(stop.Code, stop.ID, stop.Name, stop.Lat, stop.Lon),
			Distance: candidate.Distance,
		})
	}

	api.sendResponse(w, r, models.NewListResponse(results, models.NewEmptyReferences(), limitExceeded))
}
