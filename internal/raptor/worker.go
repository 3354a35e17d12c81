package raptor

// worker runs one range iteration at a time and accumulates the paths found.
type worker[T TripSchedule] interface {
	routeIteration(iterationStartTime int) error
	paths() []*Path[T]
}

// searchContext holds the collaborators shared by the workers of one request.
type searchContext[T TripSchedule] struct {
	data           TransitDataProvider[T]
	calculator     TransitCalculator[T]
	costCalculator *DefaultCostCalculator[T]
	slack          searchSlack
	pathMapper     *pathMapper[T]
	lifeCycle      lifeCycle

	accessPaths   []Transfer
	egressByStop  map[int][]Transfer
	maxRounds     int
	optimizations Optimizations
}

func newSearchContext[T TripSchedule](request *Request, params SearchParams, data TransitDataProvider[T]) *searchContext[T] {
	calculator := NewTransitCalculator[T](request.Direction, params)
	costCalculator := NewCostCalculator(request.CostFactors, calculator)

	slack := request.Slack
	if slack == nil {
		slack = NewSlackProvider(0, 0, 0)
	}

	egressByStop := make(map[int][]Transfer)
	for _, egress := range calculator.EgressPaths(params) {
		egressByStop[egress.Stop] = append(egressByStop[egress.Stop], egress)
	}

	return &searchContext[T]{
		data:           data,
		calculator:     calculator,
		costCalculator: costCalculator,
		slack:          calculator.slackProvider(slack),
		pathMapper:     newPathMapper(calculator, slack),
		lifeCycle:      newLifeCycle(costCalculator),
		accessPaths:    calculator.AccessPaths(params),
		egressByStop:   egressByStop,
		maxRounds:      params.MaxNumberOfTransfers + 1,
		optimizations:  request.Optimizations,
	}
}

// traverse returns the arrival time and cost of an access or egress path started
// at startTime. A path with flex rides is separated from the transit leg by
// transfer slack, charged as waiting.
func (c *searchContext[T]) traverse(path Transfer, startTime int) (int, int) {
	duration, cost := path.DurationInSeconds, path.Cost
	if path.HasRides() {
		slack := c.slack.accessEgressWithRidesSlack()
		duration += slack
		cost += c.costCalculator.WaitCost(slack)
	}
	return c.calculator.PlusDuration(startTime, duration), cost
}

// destinationArrivals returns the journeys completed from a transit arrival
// through the egress paths at its stop.
func (c *searchContext[T]) destinationArrivals(arrival *StopArrival[T]) []*destinationArrival[T] {
	egressPaths := c.egressByStop[arrival.stop]
	if len(egressPaths) == 0 {
		return nil
	}

	arrivals := make([]*destinationArrival[T], 0, len(egressPaths))
	for _, egress := range egressPaths {
		time, cost := c.traverse(egress, arrival.arrivalTime)
		if c.calculator.ExceedsTimeLimit(time) {
			continue
		}
		arrivals = append(arrivals, newDestinationArrival(arrival, egress, time, arrival.cost+cost))
	}
	return arrivals
}

// stopSet is a set of stop indexes that remembers insertion order.
type stopSet struct {
	contains []bool
	stops    []int
}

func newStopSet(size int) *stopSet {
	return &stopSet{contains: make([]bool, size)}
}

func (s *stopSet) add(stop int) {
	if !s.contains[stop] {
		s.contains[stop] = true
		s.stops = append(s.stops, stop)
	}
}

func (s *stopSet) has(stop int) bool {
	return s.contains[stop]
}

func (s *stopSet) isEmpty() bool {
	return len(s.stops) == 0
}

func (s *stopSet) clear() {
	for _, stop := range s.stops {
		s.contains[stop] = false
	}
	s.stops = s.stops[:0]
}
