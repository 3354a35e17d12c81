package webui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/utils"
)

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

var dataTypes = []string{"stats", "agencies", "stops", "trips", "patterns", "transfers"}

// patternView is a pattern with stop ids and readable trip times.
type patternView struct {
	Name  string
	Stops []string
	Trips map[string][]string
}

type transferView struct {
	From, To string
	Duration string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n\n", title)
	dumper.Fdump(w, data)
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	network := webUI.GtfsManager.Network()
	if network == nil {
		http.Error(w, "timetable not loaded", http.StatusServiceUnavailable)
		return
	}

	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "stats":
		data = network.Stats()
		title = "Timetable - Statistics"
	case "agencies":
		data = network.Agencies()
		title = "Timetable - Agencies"
	case "stops":
		data = network.Stops()
		title = "Timetable - Stops"
	case "trips":
		data = network.Trips()
		title = "Timetable - Trips"
	case "patterns":
		data = patterns(network)
		title = "Timetable - Patterns"
	case "transfers":
		data = transfers(network)
		title = "Timetable - Transfers"
	default:
		data = map[string]string{"error": "Please use one of the following: " + strings.Join(dataTypes, ", ") + "."}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

func stopID(network *gtfs.Network, index int) string {
	if stop, ok := network.Stop(index); ok {
		return stop.ID
	}
	return "?"
}

func patterns(network *gtfs.Network) []patternView {
	var views []patternView
	for _, route := range network.Data.Routes() {
		pattern := route.Pattern()
		view := patternView{
			Name:  pattern.DebugInfo(),
			Trips: map[string][]string{},
		}
		for position := range pattern.NumberOfStopsInPattern() {
			view.Stops = append(view.Stops, stopID(network, pattern.StopIndex(position)))
		}
		for _, trip := range route.Trips() {
			times := make([]string, 0, pattern.NumberOfStopsInPattern())
			for position := range pattern.NumberOfStopsInPattern() {
				times = append(times, utils.FormatClock(trip.Departure(position)))
			}
			view.Trips[trip.ID()] = times
		}
		views = append(views, view)
	}
	return views
}

func transfers(network *gtfs.Network) []transferView {
	var views []transferView
	for from := range network.Data.NumberOfStops() {
		for _, transfer := range network.Data.TransfersFromStop(from) {
			views = append(views, transferView{
				From:     stopID(network, from),
				To:       stopID(network, transfer.Stop),
				Duration: utils.FormatDuration(transfer.DurationInSeconds),
			})
		}
	}
	return views
}
