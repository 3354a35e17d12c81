package raptor

import "fmt"

type testPattern struct {
	name  string
	stops []int
}

func (p *testPattern) StopIndex(pos int) int       { return p.stops[pos] }
func (p *testPattern) NumberOfStopsInPattern() int { return len(p.stops) }
func (p *testPattern) Mode() TransitMode           { return Bus }
func (p *testPattern) DebugInfo() string           { return "BUS " + p.name }

// testTrip has equal arrival and departure times at every position.
type testTrip struct {
	pattern *testPattern
	times   []int
}

func newTestTrip(pattern *testPattern, times ...int) *testTrip {
	if len(times) != len(pattern.stops) {
		panic(fmt.Sprintf("%d times for %d stops", len(times), len(pattern.stops)))
	}
	return &testTrip{pattern: pattern, times: times}
}

func (t *testTrip) Pattern() TripPattern { return t.pattern }
func (t *testTrip) Arrival(pos int) int  { return t.times[pos] }
func (t *testTrip) Departure(pos int) int {
	return t.times[pos]
}

type testTimetable []*testTrip

func (tt testTimetable) NumberOfTripSchedules() int   { return len(tt) }
func (tt testTimetable) TripSchedule(i int) *testTrip { return tt[i] }
