package gtfs

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/jamespfennell/gtfs"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/transit"
	"raptor.onebusaway.org/internal/utils"
)

// transfer_type 3 in transfers.txt: no transfer is possible between the stops.
const transferNotPossible = 3

// Stop is a GTFS stop with its index in the timetable.
type Stop struct {
	Index       int
	ID          string
	Code        string
	Name        string
	Lat         float64
	Lon         float64
	HasLocation bool
}

// Agency is a GTFS agency.
type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Language string
	Phone    string
	Email    string
	FareURL  string
}

// TripInfo describes the GTFS trip behind a timetable trip.
type TripInfo struct {
	ID             string
	RouteID        string
	RouteShortName string
	RouteLongName  string
	AgencyID       string
	Headsign       string
	Mode           raptor.TransitMode
}

// Network is the timetable for one service date plus the lookups needed to
// translate between GTFS ids and stop indexes.
type Network struct {
	Data        *transit.Data
	ServiceDate time.Time
	// Location is the timezone of the feed's first agency, UTC when unknown.
	Location *time.Location

	stops     []Stop
	stopIndex map[string]int
	trips     map[string]TripInfo
	agencies  map[string]Agency
	// located holds stops with coordinates, ordered by latitude.
	located []int

	walkSpeed          float64
	accessRadiusMeters float64
	maxAccessStops     int

	skippedTrips int
}

// NetworkStats summarizes a built network.
type NetworkStats struct {
	Stops        int
	Patterns     int
	Trips        int
	Transfers    int
	SkippedTrips int
	ServiceDate  string
}

type tripTimes struct {
	info       TripInfo
	stops      []int
	arrivals   []int
	departures []int
}

// BuildNetwork builds the timetable of the trips that run on config.ServiceDate.
// Trips are grouped into patterns by route and stop sequence; trips that
// overtake each other are split into separate patterns.
func BuildNetwork(static *gtfs.Static, config Config) (*Network, error) {
	config = config.withDefaults()

	network := &Network{
		ServiceDate:        config.ServiceDate,
		stops:              make([]Stop, 0, len(static.Stops)),
		stopIndex:          make(map[string]int, len(static.Stops)),
		trips:              make(map[string]TripInfo),
		agencies:           make(map[string]Agency, len(static.Agencies)),
		walkSpeed:          config.WalkSpeed,
		accessRadiusMeters: config.AccessRadiusMeters,
		maxAccessStops:     config.MaxAccessStops,
	}

	for _, a := range static.Agencies {
		network.agencies[a.Id] = Agency{
			ID:       a.Id,
			Name:     a.Name,
			URL:      a.Url,
			Timezone: a.Timezone,
			Language: a.Language,
			Phone:    a.Phone,
			Email:    a.Email,
			FareURL:  a.FareUrl,
		}
	}

	network.Location = time.UTC
	if len(static.Agencies) > 0 {
		if loc, err := time.LoadLocation(static.Agencies[0].Timezone); err == nil {
			network.Location = loc
		}
	}

	for _, s := range static.Stops {
		if _, ok := network.stopIndex[s.Id]; ok {
			return nil, fmt.Errorf("duplicate stop id %q", s.Id)
		}
		stop := Stop{Index: len(network.stops), ID: s.Id, Code: s.Code, Name: s.Name}
		if s.Latitude != nil && s.Longitude != nil {
			stop.Lat, stop.Lon, stop.HasLocation = *s.Latitude, *s.Longitude, true
		}
		network.stopIndex[s.Id] = stop.Index
		network.stops = append(network.stops, stop)
	}

	network.Data = transit.NewData(len(network.stops))

	groups := make(map[string][]*tripTimes)
	var keys []string
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Service == nil || !serviceRunsOn(trip.Service, config.ServiceDate) {
			continue
		}
		times, ok := network.tripTimes(trip)
		if !ok {
			network.skippedTrips++
			continue
		}
		key := patternKey(times)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], times)
	}

	served := make([]bool, len(network.stops))
	for _, key := range keys {
		if err := network.addPatterns(groups[key], served); err != nil {
			return nil, err
		}
	}

	for i, stop := range network.stops {
		if stop.HasLocation && served[i] {
			network.located = append(network.located, i)
		}
	}
	slices.SortFunc(network.located, func(a, b int) int {
		return cmp.Compare(network.stops[a].Lat, network.stops[b].Lat)
	})

	if err := network.addTransfers(static.Transfers, config.TransferRadiusMeters); err != nil {
		return nil, err
	}
	return network, nil
}

// tripTimes orders the stop times of a trip by stop sequence. Trips with fewer
// than two stops or with times running backwards are rejected.
func (network *Network) tripTimes(trip *gtfs.ScheduledTrip) (*tripTimes, bool) {
	if len(trip.StopTimes) < 2 || trip.Route == nil {
		return nil, false
	}

	stopTimes := slices.Clone(trip.StopTimes)
	slices.SortStableFunc(stopTimes, func(a, b gtfs.ScheduledStopTime) int {
		return cmp.Compare(a.StopSequence, b.StopSequence)
	})

	times := &tripTimes{
		info: TripInfo{
			ID:             trip.ID,
			RouteID:        trip.Route.Id,
			RouteShortName: trip.Route.ShortName,
			RouteLongName:  trip.Route.LongName,
			Headsign:       trip.Headsign,
			Mode:           modeForRouteType(int(trip.Route.Type)),
		},
		stops:      make([]int, 0, len(stopTimes)),
		arrivals:   make([]int, 0, len(stopTimes)),
		departures: make([]int, 0, len(stopTimes)),
	}
	if trip.Route.Agency != nil {
		times.info.AgencyID = trip.Route.Agency.Id
	}

	previous := 0
	for i, st := range stopTimes {
		if st.Stop == nil {
			return nil, false
		}
		index, ok := network.stopIndex[st.Stop.Id]
		if !ok {
			return nil, false
		}
		arrival := int(st.ArrivalTime / time.Second)
		departure := max(int(st.DepartureTime/time.Second), arrival)
		if i > 0 && arrival < previous {
			return nil, false
		}
		previous = departure

		times.stops = append(times.stops, index)
		times.arrivals = append(times.arrivals, arrival)
		times.departures = append(times.departures, departure)
	}
	return times, true
}

func patternKey(times *tripTimes) string {
	var b strings.Builder
	b.WriteString(times.info.RouteID)
	for _, stop := range times.stops {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(stop))
	}
	return b.String()
}

// addPatterns adds the trips of one route and stop sequence. Trips are placed
// in the first lane none of whose trips they overtake; each lane becomes a route.
func (network *Network) addPatterns(trips []*tripTimes, served []bool) error {
	slices.SortStableFunc(trips, func(a, b *tripTimes) int {
		return cmp.Compare(a.departures[0], b.departures[0])
	})

	var lanes [][]*tripTimes
	for _, trip := range trips {
		placed := false
		for i, lane := range lanes {
			if !overtakes(lane[len(lane)-1], trip) {
				lanes[i] = append(lane, trip)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []*tripTimes{trip})
		}
	}

	first := trips[0]
	name := cmp.Or(first.info.RouteShortName, first.info.RouteLongName, first.info.RouteID)
	for _, lane := range lanes {
		pattern := transit.NewPattern(name, first.info.Mode, first.stops...)
		schedules := make([]*transit.Trip, 0, len(lane))
		for _, times := range lane {
			trip, err := transit.NewTrip(times.info.ID, pattern, times.arrivals, times.departures)
			if err != nil {
				return fmt.Errorf("building trip %s: %w", times.info.ID, err)
			}
			schedules = append(schedules, trip)
			network.trips[times.info.ID] = times.info
		}

		route, err := transit.NewRoute(pattern, schedules...)
		if err != nil {
			return err
		}
		if err := network.Data.AddRoute(route); err != nil {
			return fmt.Errorf("adding route %s: %w", name, err)
		}
	}

	for _, stop := range first.stops {
		served[stop] = true
	}
	return nil
}

// overtakes reports whether later, departing no earlier at the first stop,
// arrives or departs before earlier anywhere along the pattern.
func overtakes(earlier, later *tripTimes) bool {
	for i := range earlier.stops {
		if later.arrivals[i] < earlier.arrivals[i] || later.departures[i] < earlier.departures[i] {
			return true
		}
	}
	return false
}

type stopPair struct {
	from, to int
}

// addTransfers generates straight-line walking transfers between nearby served
// stops, then applies transfers.txt: a min_transfer_time replaces the walk time
// and transfer_type 3 removes the transfer.
func (network *Network) addTransfers(transfers []gtfs.Transfer, radiusMeters float64) error {
	durations := make(map[stopPair]int)

	latSpan := utils.LatitudeSpan(radiusMeters)
	for i, from := range network.located {
		a := network.stops[from]
		for _, to := range network.located[i+1:] {
			b := network.stops[to]
			if b.Lat-a.Lat > latSpan {
				break
			}
			distance := utils.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
			if distance > radiusMeters {
				continue
			}
			duration := network.walkDuration(distance)
			durations[stopPair{from, to}] = duration
			durations[stopPair{to, from}] = duration
		}
	}

	for _, transfer := range transfers {
		if transfer.From == nil || transfer.To == nil {
			continue
		}
		from, ok := network.stopIndex[transfer.From.Id]
		if !ok {
			continue
		}
		to, ok := network.stopIndex[transfer.To.Id]
		if !ok || from == to {
			continue
		}
		pair := stopPair{from, to}
		switch {
		case int(transfer.Type) == transferNotPossible:
			delete(durations, pair)
		case transfer.MinTransferTime != nil:
			durations[pair] = int(*transfer.MinTransferTime)
		default:
			if _, ok := durations[pair]; !ok {
				durations[pair] = network.walkDurationBetween(from, to)
			}
		}
	}

	pairs := make([]stopPair, 0, len(durations))
	for pair := range durations {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b stopPair) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})
	for _, pair := range pairs {
		if err := network.Data.AddTransfer(pair.from, pair.to, durations[pair]); err != nil {
			return err
		}
	}
	return nil
}

func (network *Network) walkDuration(meters float64) int {
	return int(math.Ceil(meters / network.walkSpeed))
}

// walkDurationBetween is zero when either stop has no coordinates.
func (network *Network) walkDurationBetween(from, to int) int {
	a, b := network.stops[from], network.stops[to]
	if !a.HasLocation || !b.HasLocation {
		return 0
	}
	return network.walkDuration(utils.Haversine(a.Lat, a.Lon, b.Lat, b.Lon))
}

// serviceRunsOn applies calendar_dates exceptions first, then the weekly
// pattern within the calendar's date range.
func serviceRunsOn(service *gtfs.Service, date time.Time) bool {
	day := dayNumber(date)
	for _, removed := range service.RemovedDates {
		if dayNumber(removed) == day {
			return false
		}
	}
	for _, added := range service.AddedDates {
		if dayNumber(added) == day {
			return true
		}
	}
	if service.StartDate.IsZero() || day < dayNumber(service.StartDate) || day > dayNumber(service.EndDate) {
		return false
	}

	switch date.Weekday() {
	case time.Monday:
		return service.Monday
	case time.Tuesday:
		return service.Tuesday
	case time.Wednesday:
		return service.Wednesday
	case time.Thursday:
		return service.Thursday
	case time.Friday:
		return service.Friday
	case time.Saturday:
		return service.Saturday
	default:
		return service.Sunday
	}
}

// dayNumber compares calendar dates regardless of time zone or time of day.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// modeForRouteType maps basic and extended GTFS route types.
func modeForRouteType(routeType int) raptor.TransitMode {
	switch {
	case routeType == 0:
		return raptor.Tram
	case routeType == 1:
		return raptor.Subway
	case routeType == 2:
		return raptor.Rail
	case routeType == 3:
		return raptor.Bus
	case routeType == 4:
		return raptor.Ferry
	case routeType == 5:
		return raptor.CableCar
	case routeType == 6:
		return raptor.Gondola
	case routeType == 7:
		return raptor.Funicular
	case routeType == 11:
		return raptor.Trolleybus
	case routeType == 12:
		return raptor.Monorail
	case routeType >= 100 && routeType < 200:
		return raptor.Rail
	case routeType >= 400 && routeType < 500:
		return raptor.Subway
	case routeType == 800:
		return raptor.Trolleybus
	case routeType >= 900 && routeType < 1000:
		return raptor.Tram
	case routeType >= 1000 && routeType < 1100:
		return raptor.Ferry
	case routeType >= 1300 && routeType < 1400:
		return raptor.Gondola
	case routeType == 1400:
		return raptor.Funicular
	case routeType == 1501:
		return raptor.Flex
	default:
		return raptor.Bus
	}
}

// StopByID returns the stop with the given GTFS id.
func (network *Network) StopByID(id string) (Stop, bool) {
	index, ok := network.stopIndex[id]
	if !ok {
		return Stop{}, false
	}
	return network.stops[index], true
}

// Stop returns the stop at a timetable index.
func (network *Network) Stop(index int) (Stop, bool) {
	if index < 0 || index >= len(network.stops) {
		return Stop{}, false
	}
	return network.stops[index], true
}

// Trip returns the GTFS details of a timetable trip.
func (network *Network) Trip(id string) (TripInfo, bool) {
	info, ok := network.trips[id]
	return info, ok
}

// Stops returns every stop of the feed in timetable order.
func (network *Network) Stops() []Stop {
	return slices.Clone(network.stops)
}

// Trips returns the trips running on the service date, ordered by id.
func (network *Network) Trips() []TripInfo {
	trips := make([]TripInfo, 0, len(network.trips))
	for _, info := range network.trips {
		trips = append(trips, info)
	}
	slices.SortFunc(trips, func(a, b TripInfo) int { return cmp.Compare(a.ID, b.ID) })
	return trips
}

// Agencies returns the feed's agencies ordered by id.
func (network *Network) Agencies() []Agency {
	agencies := make([]Agency, 0, len(network.agencies))
	for _, agency := range network.agencies {
		agencies = append(agencies, agency)
	}
	slices.SortFunc(agencies, func(a, b Agency) int { return cmp.Compare(a.ID, b.ID) })
	return agencies
}

func (network *Network) Agency(id string) (Agency, bool) {
	agency, ok := network.agencies[id]
	return agency, ok
}

// TimeAt converts seconds after the start of the service day into a wall clock
// time. GTFS measures service day time from noon minus 12h, which differs from
// midnight on days with a daylight saving change.
func (network *Network) TimeAt(seconds int) time.Time {
	y, m, d := network.ServiceDate.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, network.Location)
	return noon.Add(-12 * time.Hour).Add(time.Duration(seconds) * time.Second)
}

// SecondsAt is the inverse of TimeAt.
func (network *Network) SecondsAt(t time.Time) int {
	return int(t.Sub(network.TimeAt(0)).Seconds())
}

// Bounds returns the center and span of the served stops.
func (network *Network) Bounds() (lat, lon, latSpan, lonSpan float64) {
	if len(network.located) == 0 {
		return 0, 0, 0, 0
	}

	minLat := network.stops[network.located[0]].Lat
	maxLat := network.stops[network.located[len(network.located)-1]].Lat
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, index := range network.located {
		minLon = math.Min(minLon, network.stops[index].Lon)
		maxLon = math.Max(maxLon, network.stops[index].Lon)
	}

	return (minLat + maxLat) / 2, (minLon + maxLon) / 2, maxLat - minLat, maxLon - minLon
}

func (network *Network) Stats() NetworkStats {
	transfers := 0
	for stop := range network.stops {
		transfers += len(network.Data.TransfersFromStop(stop))
	}
	return NetworkStats{
		Stops:        len(network.stops),
		Patterns:     len(network.Data.Routes()),
		Trips:        network.Data.NumberOfTrips(),
		Transfers:    transfers,
		SkippedTrips: network.skippedTrips,
		ServiceDate:  network.ServiceDate.Format("2006-01-02"),
	}
}
