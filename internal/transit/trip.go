package transit

import (
	"fmt"
	"strings"

	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/utils"
)

// Trip is one scheduled run over a pattern.
type Trip struct {
	id         string
	pattern    *Pattern
	arrivals   []int
	departures []int
}

// NewTrip creates a trip. There must be one arrival and one departure per
// pattern position, and the times must never go backwards.
func NewTrip(id string, pattern *Pattern, arrivals, departures []int) (*Trip, error) {
	n := pattern.NumberOfStopsInPattern()
	if len(arrivals) != n || len(departures) != n {
		return nil, fmt.Errorf("trip %s: %d arrivals and %d departures for %d stops",
			id, len(arrivals), len(departures), n)
	}
	for i := range n {
		if departures[i] < arrivals[i] {
			return nil, fmt.Errorf("trip %s: departure before arrival at position %d", id, i)
		}
		if i > 0 && arrivals[i] < departures[i-1] {
			return nil, fmt.Errorf("trip %s: arrival at position %d before previous departure", id, i)
		}
	}
	return &Trip{id: id, pattern: pattern, arrivals: arrivals, departures: departures}, nil
}

// ParseTrip creates a trip from a list like "0:10 0:12 0:14". A position may
// give separate arrival and departure times as "0:12/0:13".
func ParseTrip(id string, pattern *Pattern, schedule string) (*Trip, error) {
	fields := strings.FieldsFunc(schedule, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	arrivals := make([]int, 0, len(fields))
	departures := make([]int, 0, len(fields))
	for _, field := range fields {
		arrivalText, departureText, found := strings.Cut(field, "/")
		if !found {
			departureText = arrivalText
		}
		arrival, err := utils.ParseClock(arrivalText)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", id, err)
		}
		departure, err := utils.ParseClock(departureText)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", id, err)
		}
		arrivals = append(arrivals, arrival)
		departures = append(departures, departure)
	}
	return NewTrip(id, pattern, arrivals, departures)
}

func (t *Trip) ID() string { return t.id }

func (t *Trip) Pattern() raptor.TripPattern { return t.pattern }

func (t *Trip) Arrival(stopPositionInPattern int) int {
	return t.arrivals[stopPositionInPattern]
}

func (t *Trip) Departure(stopPositionInPattern int) int {
	return t.departures[stopPositionInPattern]
}
