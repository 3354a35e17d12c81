package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"raptor.onebusaway.org/internal/gtfs"
)

// WebUI serves a plain text dump of the loaded timetable for debugging.
type WebUI struct {
	GtfsManager *gtfs.Manager
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
