package transit

import (
	"cmp"
	"fmt"
	"slices"

	"raptor.onebusaway.org/internal/raptor"
)

// Route is a pattern with its timetable. It serves as its own timetable.
type Route struct {
	pattern *Pattern
	trips   []*Trip
}

// NewRoute creates a route and orders its trips by departure at the first stop.
// Trips must not overtake each other.
func NewRoute(pattern *Pattern, trips ...*Trip) (*Route, error) {
	for _, trip := range trips {
		if trip.pattern != pattern {
			return nil, fmt.Errorf("trip %s does not run on pattern %s", trip.id, pattern.DebugInfo())
		}
	}

	sorted := slices.Clone(trips)
	slices.SortStableFunc(sorted, func(a, b *Trip) int {
		return cmp.Compare(a.Departure(0), b.Departure(0))
	})
	return &Route{pattern: pattern, trips: sorted}, nil
}

// MustRoute builds a route from schedule strings, one per trip. It panics on
// malformed input and is meant for fixed test networks.
func MustRoute(name string, mode raptor.TransitMode, stops []int, schedules ...string) *Route {
	pattern := NewPattern(name, mode, stops...)
	trips := make([]*Trip, 0, len(schedules))
	for i, schedule := range schedules {
		trip, err := ParseTrip(fmt.Sprintf("%s-%d", name, i+1), pattern, schedule)
		if err != nil {
			panic(err)
		}
		trips = append(trips, trip)
	}
	route, err := NewRoute(pattern, trips...)
	if err != nil {
		panic(err)
	}
	return route
}

func (r *Route) Pattern() raptor.TripPattern { return r.pattern }

func (r *Route) Timetable() raptor.Timetable[*Trip] { return r }

func (r *Route) NumberOfTripSchedules() int { return len(r.trips) }

func (r *Route) TripSchedule(index int) *Trip { return r.trips[index] }

// Trips returns the trips in timetable order; the slice must not be modified.
func (r *Route) Trips() []*Trip { return r.trips }
