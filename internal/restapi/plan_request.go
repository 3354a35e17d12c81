package restapi

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"raptor.onebusaway.org/internal/appconf"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/utils"
)

const maxWindowMinutes = 24 * 60

// endpoint is the origin or destination of a plan request: a stop, or a
// coordinate reached by walking.
type endpoint struct {
	stop     *gtfs.Stop
	lat, lon float64
}

func (e endpoint) place() models.Place {
	if e.stop != nil {
		return models.Place{Name: e.stop.Name, StopID: e.stop.ID, StopCode: e.stop.Code, Lat: e.stop.Lat, Lon: e.stop.Lon}
	}
	return models.Place{Name: fmt.Sprintf("%.6f,%.6f", e.lat, e.lon), Lat: e.lat, Lon: e.lon}
}

// planQuery is a parsed plan request.
type planQuery struct {
	from, to       endpoint
	time           int
	arriveBy       bool
	profile        raptor.Profile
	windowMinutes  int
	maxTransfers   int
	walkReluctance float64
}

// parsePlanQuery reads the plan parameters, filling unset ones from the routing
// defaults. now is used when no time is given.
func parsePlanQuery(params url.Values, network *gtfs.Network, defaults appconf.RoutingDefaults, now time.Time) (planQuery, map[string][]string) {
	query := planQuery{profile: defaults.SearchProfile()}

	var fieldErrors map[string][]string
	query.from, fieldErrors = parseEndpoint(params, network, "from", fieldErrors)
	query.to, fieldErrors = parseEndpoint(params, network, "to", fieldErrors)

	var hasTime bool
	query.time, hasTime, fieldErrors = utils.ParseClockParam(params, "time", fieldErrors)
	if !hasTime {
		query.time = max(0, network.SecondsAt(now))
	}
	query.arriveBy, fieldErrors = utils.ParseBoolParam(params, "arriveBy", fieldErrors)
	query.windowMinutes, fieldErrors = utils.ParseIntParam(params, "window", defaults.SearchWindowMinutes, fieldErrors)
	query.maxTransfers, fieldErrors = utils.ParseIntParam(params, "maxTransfers", defaults.MaxTransfers, fieldErrors)

	query.walkReluctance = defaults.WalkReluctance
	if params.Get("walkReluctance") != "" {
		query.walkReluctance, fieldErrors = utils.ParseFloatParam(params, "walkReluctance", fieldErrors)
		if query.walkReluctance < 0 {
			fieldErrors["walkReluctance"] = append(fieldErrors["walkReluctance"], "must not be negative")
		}
	}

	if query.windowMinutes > maxWindowMinutes {
		fieldErrors["window"] = append(fieldErrors["window"], fmt.Sprintf("must be at most %d minutes", maxWindowMinutes))
	}

	switch name := strings.ToLower(params.Get("profile")); name {
	case "":
	case "standard", "multi":
		query.profile = appconf.ParseProfile(name)
	default:
		fieldErrors["profile"] = append(fieldErrors["profile"], `must be "standard" or "multi"`)
	}

	return query, fieldErrors
}

// parseEndpoint reads <prefix>Stop or <prefix>Lat and <prefix>Lon.
func parseEndpoint(params url.Values, network *gtfs.Network, prefix string, fieldErrors map[string][]string) (endpoint, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	stopKey, latKey, lonKey := prefix+"Stop", prefix+"Lat", prefix+"Lon"

	if id := params.Get(stopKey); id != "" {
		if err := utils.ValidateID(id); err != nil {
			fieldErrors[stopKey] = append(fieldErrors[stopKey], err.Error())
			return endpoint{}, fieldErrors
		}
		stop, ok := network.StopByID(id)
		if !ok {
			fieldErrors[stopKey] = append(fieldErrors[stopKey], fmt.Sprintf("unknown stop %q", id))
			return endpoint{}, fieldErrors
		}
		return endpoint{stop: &stop, lat: stop.Lat, lon: stop.Lon}, fieldErrors
	}

	if params.Get(latKey) == "" || params.Get(lonKey) == "" {
		fieldErrors[stopKey] = append(fieldErrors[stopKey], fmt.Sprintf("%s or %s and %s is required", stopKey, latKey, lonKey))
		return endpoint{}, fieldErrors
	}

	before := len(fieldErrors)
	lat, fieldErrors := utils.ParseFloatParam(params, latKey, fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(params, lonKey, fieldErrors)
	if len(fieldErrors) == before {
		fieldErrors = utils.ValidateCoordinate(lat, lon, latKey, lonKey, fieldErrors)
	}
	return endpoint{lat: lat, lon: lon}, fieldErrors
}

// paths returns the access or egress paths of an endpoint.
func (e endpoint) paths(network *gtfs.Network, walkReluctance float64) []raptor.Transfer {
	if e.stop != nil {
		path, _ := network.StopPath(e.stop.ID)
		return []raptor.Transfer{path}
	}
	return network.WalkPaths(e.lat, e.lon, walkReluctance)
}

// routingRequest builds the routing request of a query. Field errors are
// returned when an endpoint has no stop within walking distance.
func (query planQuery) routingRequest(network *gtfs.Network, defaults appconf.RoutingDefaults) (raptor.Request, map[string][]string) {
	fieldErrors := make(map[string][]string)

	params := raptor.NewSearchParams()
	params.AccessPaths = query.from.paths(network, query.walkReluctance)
	params.EgressPaths = query.to.paths(network, query.walkReluctance)
	params.MaxNumberOfTransfers = query.maxTransfers
	params.SearchWindowInSeconds = query.windowMinutes * 60

	if len(params.AccessPaths) == 0 {
		fieldErrors["fromLat"] = append(fieldErrors["fromLat"], "no stop within walking distance")
	}
	if len(params.EgressPaths) == 0 {
		fieldErrors["toLat"] = append(fieldErrors["toLat"], "no stop within walking distance")
	}

	direction := raptor.Forward
	if query.arriveBy {
		direction = raptor.Reverse
		params.LatestArrivalTime = query.time
	} else {
		params.EarliestDepartureTime = query.time
	}

	factors := defaults.CostFactors()
	factors.WalkReluctance = query.walkReluctance

	return raptor.Request{
		Profile:       query.profile,
		Direction:     direction,
		SearchParams:  params,
		Slack:         defaults.SlackProvider(),
		CostFactors:   factors,
		Optimizations: defaults.Optimizations(),
	}, fieldErrors
}
