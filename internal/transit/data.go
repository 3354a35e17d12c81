package transit

import (
	"fmt"

	"raptor.onebusaway.org/internal/raptor"
)

// Data is an in-memory transit network for one service day. It is built once
// and then only read, so searches may share it.
type Data struct {
	numberOfStops int
	routes        []*Route
	routesByStop  [][]int
	transfersFrom [][]raptor.Transfer
	transfersTo   [][]raptor.Transfer
	numberOfTrips int
}

// NewData creates an empty network with stops 0..numberOfStops-1.
func NewData(numberOfStops int) *Data {
	return &Data{
		numberOfStops: numberOfStops,
		routesByStop:  make([][]int, numberOfStops),
		transfersFrom: make([][]raptor.Transfer, numberOfStops),
		transfersTo:   make([][]raptor.Transfer, numberOfStops),
	}
}

// AddRoute adds a route. Every stop of its pattern must exist.
func (d *Data) AddRoute(route *Route) error {
	index := len(d.routes)
	for pos, stop := range route.pattern.stops {
		if err := d.checkStop(stop); err != nil {
			return fmt.Errorf("route %s, position %d: %w", route.pattern.DebugInfo(), pos, err)
		}
	}

	d.routes = append(d.routes, route)
	d.numberOfTrips += len(route.trips)
	for _, stop := range route.pattern.stops {
		byStop := d.routesByStop[stop]
		if len(byStop) == 0 || byStop[len(byStop)-1] != index {
			d.routesByStop[stop] = append(byStop, index)
		}
	}
	return nil
}

// AddTransfer adds a walking edge between two stops.
func (d *Data) AddTransfer(from, to, durationInSeconds int) error {
	if err := d.checkStop(from); err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	if err := d.checkStop(to); err != nil {
		return fmt.Errorf("transfer target: %w", err)
	}
	if durationInSeconds < 0 {
		return fmt.Errorf("transfer %d -> %d: negative duration %d", from, to, durationInSeconds)
	}

	d.transfersFrom[from] = append(d.transfersFrom[from], raptor.Transfer{Stop: to, DurationInSeconds: durationInSeconds})
	d.transfersTo[to] = append(d.transfersTo[to], raptor.Transfer{Stop: from, DurationInSeconds: durationInSeconds})
	return nil
}

func (d *Data) checkStop(stop int) error {
	if stop < 0 || stop >= d.numberOfStops {
		return fmt.Errorf("stop %d out of range [0, %d)", stop, d.numberOfStops)
	}
	return nil
}

func (d *Data) NumberOfStops() int { return d.numberOfStops }

func (d *Data) TransfersFromStop(stop int) []raptor.Transfer { return d.transfersFrom[stop] }

func (d *Data) TransfersToStop(stop int) []raptor.Transfer { return d.transfersTo[stop] }

// RoutesForStops returns the routes visiting any of the stops, each once, in the
// order they were added.
func (d *Data) RoutesForStops(stops []int) []raptor.Route[*Trip] {
	selected := make([]bool, len(d.routes))
	count := 0
	for _, stop := range stops {
		for _, index := range d.routesByStop[stop] {
			if !selected[index] {
				selected[index] = true
				count++
			}
		}
	}

	routes := make([]raptor.Route[*Trip], 0, count)
	for index, ok := range selected {
		if ok {
			routes = append(routes, d.routes[index])
		}
	}
	return routes
}

// Routes returns every route; the slice must not be modified.
func (d *Data) Routes() []*Route { return d.routes }

func (d *Data) NumberOfTrips() int { return d.numberOfTrips }

var _ raptor.TransitDataProvider[*Trip] = (*Data)(nil)
