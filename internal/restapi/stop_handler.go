package restapi

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/utils"
)

// stopHandler returns one stop, addressed as /api/stops/{id}.json.
func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	id := strings.TrimSuffix(params.ByName("id"), ".json")

	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	network := api.GtfsManager.Network()
	if network == nil {
		api.unavailableResponse(w, r)
		return
	}

	stop, ok := network.StopByID(id)
	if !ok {
		api.notFoundResponse(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(
		models.NewStop(stop.Code, stop.ID, stop.Name, stop.Lat, stop.Lon),
		models.NewEmptyReferences()))
}
