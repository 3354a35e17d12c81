package app

import (
	"log/slog"

	"raptor.onebusaway.org/internal/appconf"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/metrics"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/transit"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config          appconf.Config
	GtfsConfig      gtfs.Config
	RoutingDefaults appconf.RoutingDefaults
	Logger          *slog.Logger
	GtfsManager     *gtfs.Manager
	Router          *raptor.Service[*transit.Trip]
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Collector
}
