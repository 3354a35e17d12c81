package restapi

import (
	"net/http"
	"time"

	"raptor.onebusaway.org/internal/logging"
	"raptor.onebusaway.org/internal/models"
)

// planHandler plans journeys between two stops or coordinates.
func (api *RestAPI) planHandler(w http.ResponseWriter, r *http.Request) {
	network := api.GtfsManager.Network()
	if network == nil {
		api.unavailableResponse(w, r)
		return
	}

	query, fieldErrors := parsePlanQuery(r.URL.Query(), network, api.RoutingDefaults, time.Now())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	request, fieldErrors := query.routingRequest(network, api.RoutingDefaults)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ctx := r.Context()
	response, err := api.Router.Route(ctx, request, network.Data)
	if err != nil {
		if ctx.Err() != nil {
			logging.LogOperation(logging.FromContext(ctx), "plan_cancelled")
			return
		}
		api.routingErrorResponse(w, r, err)
		return
	}

	from, to := query.from.place(), query.to.place()
	mapper := newItineraryMapper(network, from, to)
	plan := models.Plan{
		ServiceDate:  network.TimeAt(0).UnixMilli(),
		From:         from,
		To:           to,
		Profile:      query.profile.String(),
		ArriveBy:     query.arriveBy,
		SearchWindow: response.SearchParams.SearchWindowInSeconds,
		Iterations:   response.Iterations,
		Itineraries:  make([]models.Itinerary, 0, len(response.Paths)),
	}
	for _, path := range response.Paths {
		plan.Itineraries = append(plan.Itineraries, mapper.itinerary(path))
	}

	api.sendResponse(w, r, models.NewEntryResponse(plan, mapper.references()))
}
