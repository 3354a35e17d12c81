package raptor

import (
	"math"
	"strings"
)

// NotSet marks an unset time bound or stop reference.
const NotSet = math.MinInt32

// NoStop is the stop index used for the open end of access and egress legs.
const NoStop = -1

// TransitMode identifies the travel mode of a pattern; slack is configured per mode.
type TransitMode int

const (
	Bus TransitMode = iota
	Tram
	Subway
	Rail
	Ferry
	CableCar
	Gondola
	Funicular
	Trolleybus
	Monorail
	Flex
)

var transitModeNames = [...]string{"BUS", "TRAM", "SUBWAY", "RAIL", "FERRY", "CABLE_CAR", "GONDOLA", "FUNICULAR", "TROLLEYBUS", "MONORAIL", "FLEX"}

func (m TransitMode) String() string {
	if m < 0 || int(m) >= len(transitModeNames) {
		return "UNKNOWN"
	}
	return transitModeNames[m]
}

// ParseTransitMode returns the mode with the given name, ignoring case.
func ParseTransitMode(name string) (TransitMode, bool) {
	for i, modeName := range transitModeNames {
		if strings.EqualFold(modeName, name) {
			return TransitMode(i), true
		}
	}
	return 0, false
}

// TripPattern is an ordered stop sequence shared by every schedule bound to it.
// A stop index may occur more than once.
type TripPattern interface {
	StopIndex(stopPositionInPattern int) int
	NumberOfStopsInPattern() int
	Mode() TransitMode
	// DebugInfo identifies the pattern in logs and errors, e.g. "BUS R1".
	DebugInfo() string
}

// TripSchedule is one trip over a pattern. Times are seconds after the start of the service day.
type TripSchedule interface {
	Pattern() TripPattern
	Arrival(stopPositionInPattern int) int
	Departure(stopPositionInPattern int) int
}

// Timetable lists the schedules of a pattern ordered by departure at the first stop.
type Timetable[T TripSchedule] interface {
	NumberOfTripSchedules() int
	TripSchedule(index int) T
}

// Route binds a pattern to its timetable.
type Route[T TripSchedule] interface {
	Pattern() TripPattern
	Timetable() Timetable[T]
}

// TransitDataProvider is the read-only network view a search runs on. Implementations
// must be safe for concurrent readers.
type TransitDataProvider[T TripSchedule] interface {
	NumberOfStops() int
	// TransfersFromStop returns transfers leaving the stop; Transfer.Stop is the target.
	TransfersFromStop(stop int) []Transfer
	// TransfersToStop returns transfers arriving at the stop; Transfer.Stop is the source.
	TransfersToStop(stop int) []Transfer
	// RoutesForStops returns each route visiting at least one of the stops, once.
	RoutesForStops(stops []int) []Route[T]
}

// Transfer is a timed walk or flex ride: an access path, an egress path or a
// transfer edge between two stops.
type Transfer struct {
	// Stop is the boarding stop of an access path, the alighting stop of an egress
	// path, and the far end of a transfer edge.
	Stop              int `validate:"gte=0"`
	DurationInSeconds int `validate:"gte=0"`
	// Cost in fixed-point units. Transfer edges are costed by the search, so it is
	// only read for access and egress paths.
	Cost          int `validate:"gte=0"`
	NumberOfRides int `validate:"gte=0"`
}

// HasRides reports whether the path contains a flex ride.
func (t Transfer) HasRides() bool {
	return t.NumberOfRides > 0
}
