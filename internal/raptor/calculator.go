package raptor

import (
	"math"
	"slices"
	"sort"
)

// TransitCalculator hides the time direction of a search. Workers, the path
// assembler and the cost model only talk to this interface, so one implementation
// of each serves both forward and reverse searches.
type TransitCalculator[T TripSchedule] interface {
	// IsBefore reports whether time a is strictly better than time b.
	IsBefore(a, b int) bool
	IsBetterOrEqual(a, b int) bool
	PlusDuration(time, duration int) int
	MinusDuration(time, duration int) int
	// Duration returns the non-negative time between two times in search order.
	Duration(from, to int) int
	UnreachedTime() int
	// ExceedsTimeLimit reports whether a time is beyond the far bound of the request.
	ExceedsTimeLimit(time int) bool
	// RangeIterations returns the start times of the range, worst start first.
	RangeIterations() []int

	StopPositions(pattern TripPattern) PositionIterator
	BoardTime(trip T, stopPositionInPattern int) int
	AlightTime(trip T, stopPositionInPattern int) int
	// SearchTrip finds the best trip boardable at a position given the earliest
	// (forward) or latest (reverse) possible board time.
	SearchTrip(timetable Timetable[T], stopPositionInPattern, boundTime int) (int, bool)
	IsBetterOrEqualTripIndex(a, b int) bool
	// RelativeRideTime maps a board time to a value that grows with the time still
	// to ride on the trip. Only differences between values are meaningful.
	RelativeRideTime(boardTime int) int

	// AccessPaths returns the paths a search starts from: the request's access
	// paths forward, its egress paths in reverse.
	AccessPaths(params SearchParams) []Transfer
	EgressPaths(params SearchParams) []Transfer
	// Transfers returns the transfer edges leaving a stop in search order.
	Transfers(data TransitDataProvider[T], stop int) []Transfer
	// IsBetterPath orders single-criterion results: best arrival for a forward
	// search, best departure for a reverse search.
	IsBetterPath(a, b *Path[T]) bool

	// FindTripTimes recovers the times of a transit leg the search boarded at
	// boardStop at boardTime and left at alightStop, returned in travel order.
	FindTripTimes(trip T, boardStop, alightStop, boardTime int) (TripTimes, error)
	// ForwardOrder puts an arrival chain collected from the last arrival into
	// travel order, origin first.
	ForwardOrder(chain []*StopArrival[T])

	slackProvider(source SlackProvider) searchSlack
}

// TripTimes are the board and alight stops and times of one transit leg.
type TripTimes struct {
	BoardStop  int
	BoardTime  int
	AlightStop int
	AlightTime int
}

// PositionIterator walks stop positions of a pattern in search order.
type PositionIterator struct {
	next, end, step int
}

func (it *PositionIterator) HasNext() bool {
	return it.next != it.end
}

func (it *PositionIterator) Next() int {
	pos := it.next
	it.next += it.step
	return pos
}

// NewTransitCalculator returns the calculator for the direction of the request.
// The search params must already have their window and bounds resolved.
func NewTransitCalculator[T TripSchedule](direction SearchDirection, params SearchParams) TransitCalculator[T] {
	if direction == Reverse {
		return &reverseCalculator[T]{
			earliestDepartureTime: params.EarliestDepartureTime,
			latestArrivalTime:     params.LatestArrivalTime,
			searchWindow:          params.SearchWindowInSeconds,
		}
	}
	return &forwardCalculator[T]{
		earliestDepartureTime: params.EarliestDepartureTime,
		latestArrivalTime:     params.LatestArrivalTime,
		searchWindow:          params.SearchWindowInSeconds,
	}
}

type forwardCalculator[T TripSchedule] struct {
	earliestDepartureTime int
	latestArrivalTime     int
	searchWindow          int
}

func (c *forwardCalculator[T]) IsBefore(a, b int) bool        { return a < b }
func (c *forwardCalculator[T]) IsBetterOrEqual(a, b int) bool { return a <= b }
func (c *forwardCalculator[T]) PlusDuration(t, d int) int     { return t + d }
func (c *forwardCalculator[T]) MinusDuration(t, d int) int    { return t - d }
func (c *forwardCalculator[T]) Duration(from, to int) int     { return to - from }
func (c *forwardCalculator[T]) UnreachedTime() int            { return math.MaxInt32 }

func (c *forwardCalculator[T]) ExceedsTimeLimit(t int) bool {
	return c.latestArrivalTime != NotSet && t > c.latestArrivalTime
}

func (c *forwardCalculator[T]) RangeIterations() []int {
	var iterations []int
	for t := c.earliestDepartureTime + c.searchWindow; t > c.earliestDepartureTime; t -= rangeIterationStep {
		iterations = append(iterations, t)
	}
	return append(iterations, c.earliestDepartureTime)
}

func (c *forwardCalculator[T]) StopPositions(pattern TripPattern) PositionIterator {
	return PositionIterator{next: 0, end: pattern.NumberOfStopsInPattern(), step: 1}
}

func (c *forwardCalculator[T]) BoardTime(trip T, pos int) int  { return trip.Departure(pos) }
func (c *forwardCalculator[T]) AlightTime(trip T, pos int) int { return trip.Arrival(pos) }

func (c *forwardCalculator[T]) SearchTrip(timetable Timetable[T], pos, earliestBoardTime int) (int, bool) {
	n := timetable.NumberOfTripSchedules()
	i := sort.Search(n, func(i int) bool {
		return timetable.TripSchedule(i).Departure(pos) >= earliestBoardTime
	})
	return i, i < n
}

func (c *forwardCalculator[T]) IsBetterOrEqualTripIndex(a, b int) bool { return a <= b }
func (c *forwardCalculator[T]) RelativeRideTime(boardTime int) int     { return -boardTime }

func (c *forwardCalculator[T]) FindTripTimes(trip T, boardStop, alightStop, earliestBoardTime int) (TripTimes, error) {
	return FindTripTimesAfter(trip, boardStop, alightStop, earliestBoardTime)
}

func (c *forwardCalculator[T]) AccessPaths(p SearchParams) []Transfer { return p.AccessPaths }
func (c *forwardCalculator[T]) EgressPaths(p SearchParams) []Transfer { return p.EgressPaths }

func (c *forwardCalculator[T]) Transfers(data TransitDataProvider[T], stop int) []Transfer {
	return data.TransfersFromStop(stop)
}

func (c *forwardCalculator[T]) IsBetterPath(a, b *Path[T]) bool {
	if a.EndTime() != b.EndTime() {
		return a.EndTime() < b.EndTime()
	}
	if a.StartTime() != b.StartTime() {
		return a.StartTime() > b.StartTime()
	}
	return isBetterOnTransfersAndCost(a, b)
}

func (c *forwardCalculator[T]) ForwardOrder(chain []*StopArrival[T]) {
	slices.Reverse(chain)
}

func (c *forwardCalculator[T]) slackProvider(source SlackProvider) searchSlack {
	return forwardSlack{source: source}
}

type reverseCalculator[T TripSchedule] struct {
	earliestDepartureTime int
	latestArrivalTime     int
	searchWindow          int
}

func (c *reverseCalculator[T]) IsBefore(a, b int) bool        { return a > b }
func (c *reverseCalculator[T]) IsBetterOrEqual(a, b int) bool { return a >= b }
func (c *reverseCalculator[T]) PlusDuration(t, d int) int     { return t - d }
func (c *reverseCalculator[T]) MinusDuration(t, d int) int    { return t + d }
func (c *reverseCalculator[T]) Duration(from, to int) int     { return from - to }
func (c *reverseCalculator[T]) UnreachedTime() int            { return math.MinInt32 }

func (c *reverseCalculator[T]) ExceedsTimeLimit(t int) bool {
	return c.earliestDepartureTime != NotSet && t < c.earliestDepartureTime
}

func (c *reverseCalculator[T]) RangeIterations() []int {
	var iterations []int
	for t := c.latestArrivalTime - c.searchWindow; t < c.latestArrivalTime; t += rangeIterationStep {
		iterations = append(iterations, t)
	}
	return append(iterations, c.latestArrivalTime)
}

func (c *reverseCalculator[T]) StopPositions(pattern TripPattern) PositionIterator {
	return PositionIterator{next: pattern.NumberOfStopsInPattern() - 1, end: -1, step: -1}
}

func (c *reverseCalculator[T]) BoardTime(trip T, pos int) int  { return trip.Arrival(pos) }
func (c *reverseCalculator[T]) AlightTime(trip T, pos int) int { return trip.Departure(pos) }

func (c *reverseCalculator[T]) SearchTrip(timetable Timetable[T], pos, latestBoardTime int) (int, bool) {
	n := timetable.NumberOfTripSchedules()
	i := sort.Search(n, func(i int) bool {
		return timetable.TripSchedule(i).Arrival(pos) > latestBoardTime
	}) - 1
	return i, i >= 0
}

func (c *reverseCalculator[T]) IsBetterOrEqualTripIndex(a, b int) bool { return a >= b }
func (c *reverseCalculator[T]) RelativeRideTime(boardTime int) int     { return boardTime }

// FindTripTimes is called with the stops in search order; the trip is ridden
// from alightStop to boardStop in travel order.
func (c *reverseCalculator[T]) FindTripTimes(trip T, boardStop, alightStop, latestAlightTime int) (TripTimes, error) {
	return FindTripTimesBefore(trip, alightStop, boardStop, latestAlightTime)
}

func (c *reverseCalculator[T]) AccessPaths(p SearchParams) []Transfer { return p.EgressPaths }
func (c *reverseCalculator[T]) EgressPaths(p SearchParams) []Transfer { return p.AccessPaths }

func (c *reverseCalculator[T]) Transfers(data TransitDataProvider[T], stop int) []Transfer {
	return data.TransfersToStop(stop)
}

func (c *reverseCalculator[T]) IsBetterPath(a, b *Path[T]) bool {
	if a.StartTime() != b.StartTime() {
		return a.StartTime() > b.StartTime()
	}
	if a.EndTime() != b.EndTime() {
		return a.EndTime() < b.EndTime()
	}
	return isBetterOnTransfersAndCost(a, b)
}

func (c *reverseCalculator[T]) ForwardOrder([]*StopArrival[T]) {}

func (c *reverseCalculator[T]) slackProvider(source SlackProvider) searchSlack {
	return reverseSlack{source: source}
}

func isBetterOnTransfersAndCost[T TripSchedule](a, b *Path[T]) bool {
	if a.NumberOfTransfers() != b.NumberOfTransfers() {
		return a.NumberOfTransfers() < b.NumberOfTransfers()
	}
	return a.GeneralizedCost() < b.GeneralizedCost()
}
