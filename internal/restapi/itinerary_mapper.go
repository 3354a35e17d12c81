package restapi

import (
	"slices"
	"strings"

	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/transit"
	"raptor.onebusaway.org/internal/utils"
)

// itineraryMapper turns routing paths into response models and collects the
// records they reference.
type itineraryMapper struct {
	network  *gtfs.Network
	from, to models.Place

	agencies map[string]bool
	routes   map[string]bool
	stops    map[string]bool
	trips    map[string]bool
	refs     models.ReferencesModel
}

func newItineraryMapper(network *gtfs.Network, from, to models.Place) *itineraryMapper {
	return &itineraryMapper{
		network:  network,
		from:     from,
		to:       to,
		agencies: make(map[string]bool),
		routes:   make(map[string]bool),
		stops:    make(map[string]bool),
		trips:    make(map[string]bool),
		refs:     models.NewEmptyReferences(),
	}
}

func (m *itineraryMapper) itinerary(path *raptor.Path[*transit.Trip]) models.Itinerary {
	itinerary := models.Itinerary{
		StartTime:       m.millis(path.StartTime()),
		EndTime:         m.millis(path.EndTime()),
		Duration:        path.Duration(),
		Transfers:       path.NumberOfTransfers(),
		GeneralizedCost: path.Cost(),
		Legs:            []models.Leg{},
	}

	for _, leg := range path.Legs() {
		// Access and egress at a requested stop take no time and are not shown.
		if leg.Kind != raptor.TransitLeg && leg.Kind != raptor.TransferLeg && leg.Duration() == 0 {
			continue
		}
		mapped := m.leg(leg)
		if mapped.TransitLeg {
			itinerary.TransitTime += mapped.Duration
		} else {
			itinerary.WalkTime += mapped.Duration
		}
		itinerary.Legs = append(itinerary.Legs, mapped)
	}
	itinerary.WaitingTime = itinerary.Duration - itinerary.TransitTime - itinerary.WalkTime
	return itinerary
}

func (m *itineraryMapper) leg(leg raptor.PathLeg[*transit.Trip]) models.Leg {
	from, to := m.place(leg.FromStop, m.from), m.place(leg.ToStop, m.to)
	mapped := models.Leg{
		From:      from,
		To:        to,
		StartTime: m.millis(leg.FromTime),
		EndTime:   m.millis(leg.ToTime),
		Duration:  leg.Duration(),
	}

	if leg.Kind != raptor.TransitLeg {
		mapped.Mode = "WALK"
		if leg.NumberOfRides > 0 {
			mapped.Mode = raptor.Flex.String()
		}
		mapped.Distance = utils.Haversine(from.Lat, from.Lon, to.Lat, to.Lon)
		mapped.Direction = utils.CompassDirection(from.Lat, from.Lon, to.Lat, to.Lon)
		mapped.LegGeometry = models.NewPolyline([]models.CoordinatePoint{{Lat: from.Lat, Lon: from.Lon}, {Lat: to.Lat, Lon: to.Lon}})
		return mapped
	}

	trip := leg.Trip
	mapped.TransitLeg = true
	mapped.Mode = trip.Pattern().Mode().String()
	mapped.TripID = trip.ID()

	if info, ok := m.network.Trip(trip.ID()); ok {
		mapped.RouteID = info.RouteID
		mapped.Headsign = info.Headsign
		m.addTrip(info)
	}

	points := m.rideStops(leg)
	coords := make([]models.CoordinatePoint, 0, len(points))
	for i, index := range points {
		stop, _ := m.network.Stop(index)
		coords = append(coords, models.CoordinatePoint{Lat: stop.Lat, Lon: stop.Lon})
		if i > 0 {
			prev := coords[i-1]
			mapped.Distance += utils.Haversine(prev.Lat, prev.Lon, stop.Lat, stop.Lon)
		}
	}
	mapped.LegGeometry = models.NewPolyline(coords)
	return mapped
}

// rideStops returns the stops passed on a transit leg, boarding and alighting
// stop included. Positions are matched on both stop and time since a pattern
// may visit a stop twice.
func (m *itineraryMapper) rideStops(leg raptor.PathLeg[*transit.Trip]) []int {
	trip := leg.Trip
	pattern := trip.Pattern()
	n := pattern.NumberOfStopsInPattern()

	for board := range n {
		if pattern.StopIndex(board) != leg.FromStop || trip.Departure(board) != leg.FromTime {
			continue
		}
		for alight := board + 1; alight < n; alight++ {
			if pattern.StopIndex(alight) == leg.ToStop && trip.Arrival(alight) == leg.ToTime {
				stops := make([]int, 0, alight-board+1)
				for pos := board; pos <= alight; pos++ {
					stops = append(stops, pattern.StopIndex(pos))
				}
				return stops
			}
		}
	}
	return []int{leg.FromStop, leg.ToStop}
}

// place returns the stop as a place, or the requested place for the open end
// of an access or egress leg.
func (m *itineraryMapper) place(index int, endpoint models.Place) models.Place {
	stop, ok := m.network.Stop(index)
	if !ok {
		return endpoint
	}
	if !m.stops[stop.ID] {
		m.stops[stop.ID] = true
		m.refs.Stops = append(m.refs.Stops, models.NewStop(stop.Code, stop.ID, stop.Name, stop.Lat, stop.Lon))
	}
	return models.Place{Name: stop.Name, StopID: stop.ID, StopCode: stop.Code, Lat: stop.Lat, Lon: stop.Lon}
}

func (m *itineraryMapper) addTrip(info gtfs.TripInfo) {
	if !m.trips[info.ID] {
		m.trips[info.ID] = true
		m.refs.Trips = append(m.refs.Trips, models.NewTripReference(info.ID, info.RouteID, info.Headsign, m.millis(0)))
	}
	if !m.routes[info.RouteID] {
		m.routes[info.RouteID] = true
		m.refs.Routes = append(m.refs.Routes, models.NewRoute(info.RouteID, info.AgencyID, info.RouteShortName, info.RouteLongName, info.Mode.String()))
	}
	if !m.agencies[info.AgencyID] {
		m.agencies[info.AgencyID] = true
		if agency, ok := m.network.Agency(info.AgencyID); ok {
			m.refs.Agencies = append(m.refs.Agencies, models.NewAgencyReference(
				agency.ID, agency.Name, agency.URL, agency.Timezone,
				agency.Language, agency.Phone, agency.Email, agency.FareURL))
		}
	}
}

// references returns the collected references ordered by id.
func (m *itineraryMapper) references() models.ReferencesModel {
	slices.SortFunc(m.refs.Agencies, func(a, b models.AgencyReference) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(m.refs.Routes, func(a, b models.Route) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(m.refs.Stops, func(a, b models.Stop) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(m.refs.Trips, func(a, b models.TripReference) int { return strings.Compare(a.ID, b.ID) })
	return m.refs
}

func (m *itineraryMapper) millis(seconds int) int64 {
	return m.network.TimeAt(seconds).UnixMilli()
}
