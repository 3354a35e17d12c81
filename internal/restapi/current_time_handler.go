package restapi

import (
	"net/http"
	"time"

	"raptor.onebusaway.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	var day *models.ServiceDay
	if api.GtfsManager != nil {
		if network := api.GtfsManager.Network(); network != nil {
			day = &models.ServiceDay{
				Date:  network.ServiceDate.Format("2006-01-02"),
				Start: network.TimeAt(0),
			}
		}
	}

	timeData := models.NewCurrentTimeData(time.Now(), day)
	api.sendResponse(w, r, models.NewOKResponse(timeData))
}
