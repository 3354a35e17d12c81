package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"raptor.onebusaway.org/internal/appconf"
	"raptor.onebusaway.org/internal/webui"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// validateAPIKey rejects requests without a configured key. Without configured
// keys every request passes.
func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequiresAPIKey() && api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) routes() *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.notFoundResponse)
	router.HandleOPTIONS = false
	api.SetRoutes(router)
	return router
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/plan.json", validateAPIKey(api, api.planHandler))
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/stops/:id", validateAPIKey(api, api.stopHandler))
	router.Handler(http.MethodGet, "/api/stops-for-location.json", validateAPIKey(api, api.stopsForLocationHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)
	if api.Config.Env != appconf.Production {
		webUI := &webui.WebUI{GtfsManager: api.GtfsManager}
		webUI.SetWebUIRoutes(router)
	}
	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}
}
