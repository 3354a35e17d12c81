package raptor

import (
	"cmp"
	"slices"
)

// patternRide is a trip boarded while scanning one pattern. Rides on the same
// pattern are compared by trip and relative cost before the alight stop is known.
type patternRide[T TripSchedule] struct {
	previous     *StopArrival[T]
	trip         T
	tripIndex    int
	boardTime    int
	waitTime     int
	relativeCost int
}

// mcWorker is the multi-criteria worker. Every stop keeps a Pareto set of
// arrivals on time, cost, rides and arrival kind; the destination keeps a Pareto
// set on time, cost and transfers. Stop state starts fresh each range iteration,
// while the paths found are merged into one Pareto set across iterations.
type mcWorker[T TripSchedule] struct {
	*searchContext[T]

	stopArrivals []*paretoSet[*StopArrival[T]]
	visited      *stopSet
	touched      *stopSet
	// transitTouched holds stops with a transit arrival added in the current round.
	transitTouched *stopSet

	// boardable[stop] are the arrivals of the previous round, fixed at round start.
	boardable      [][]*StopArrival[T]
	boardableStops *stopSet

	rides       *paretoSet[*patternRide[T]]
	destination *paretoSet[*destinationArrival[T]]

	results *paretoSet[*Path[T]]
	seen    map[string]struct{}
}

func newMcWorker[T TripSchedule](ctx *searchContext[T]) *mcWorker[T] {
	nStops := ctx.data.NumberOfStops()
	calc := ctx.calculator
	return &mcWorker[T]{
		searchContext:  ctx,
		stopArrivals:   make([]*paretoSet[*StopArrival[T]], nStops),
		visited:        newStopSet(nStops),
		touched:        newStopSet(nStops),
		transitTouched: newStopSet(nStops),
		boardable:      make([][]*StopArrival[T], nStops),
		boardableStops: newStopSet(nStops),
		rides: newParetoSet(func(a, b *patternRide[T]) bool {
			return calc.IsBetterOrEqualTripIndex(a.tripIndex, b.tripIndex) &&
				a.relativeCost <= b.relativeCost &&
				a.previous.rides <= b.previous.rides
		}),
		destination: newParetoSet(func(a, b *destinationArrival[T]) bool {
			return calc.IsBetterOrEqual(a.arrivalTime, b.arrivalTime) &&
				a.cost <= b.cost &&
				a.transfers <= b.transfers
		}),
		results: newParetoSet(pathDominates[T]),
		seen:    make(map[string]struct{}),
	}
}

func (w *mcWorker[T]) routeIteration(iterationStartTime int) error {
	w.resetIteration()

	w.lifeCycle.prepareForNextRound(0)
	for _, access := range w.accessPaths {
		time, cost := w.traverse(access, iterationStartTime)
		if w.calculator.ExceedsTimeLimit(time) {
			continue
		}
		w.addArrival(newAccessArrival[T](access, time, cost))
	}

	for round := 1; round <= w.maxRounds && !w.touched.isEmpty(); round++ {
		w.lifeCycle.prepareForNextRound(round)
		w.prepareBoardable(round - 1)
		w.transitTouched.clear()

		for _, route := range w.data.RoutesForStops(w.boardableStops.stops) {
			w.scanRoute(route, round)
		}
		w.relaxTransfers(round)
	}

	for _, arrival := range w.destination.all() {
		path, err := w.pathMapper.mapToPath(arrival)
		if err != nil {
			return err
		}
		w.addPath(path)
	}
	return nil
}

func (w *mcWorker[T]) resetIteration() {
	for _, stop := range w.visited.stops {
		w.stopArrivals[stop].clear()
	}
	w.visited.clear()
	w.touched.clear()
	w.destination.clear()
}

// prepareBoardable snapshots the arrivals made in the given round so that
// boardings in the next round only see them, whatever is added meanwhile.
func (w *mcWorker[T]) prepareBoardable(round int) {
	for _, stop := range w.boardableStops.stops {
		clear(w.boardable[stop])
		w.boardable[stop] = w.boardable[stop][:0]
	}
	w.boardableStops.clear()

	for _, stop := range w.touched.stops {
		for _, arrival := range w.stopArrivals[stop].all() {
			if arrival.round == round {
				w.boardable[stop] = append(w.boardable[stop], arrival)
			}
		}
		if len(w.boardable[stop]) > 0 {
			w.boardableStops.add(stop)
		}
	}
	w.touched.clear()
}

func (w *mcWorker[T]) scanRoute(route Route[T], round int) {
	pattern := route.Pattern()
	timetable := route.Timetable()
	w.rides.clear()

	for it := w.calculator.StopPositions(pattern); it.HasNext(); {
		pos := it.Next()
		stop := pattern.StopIndex(pos)

		for _, ride := range w.rides.all() {
			w.alight(ride, pattern, pos, stop, round)
		}

		if !w.boardableStops.has(stop) {
			continue
		}
		for _, prev := range w.boardable[stop] {
			boundTime := w.calculator.PlusDuration(prev.arrivalTime, w.slack.boardSlack(round, pattern))
			index, found := w.calculator.SearchTrip(timetable, pos, boundTime)
			if !found {
				continue
			}
			trip := timetable.TripSchedule(index)
			boardTime := w.calculator.BoardTime(trip, pos)
			if w.boardingPrunedByDestination(prev, boardTime) {
				continue
			}
			waitTime := w.calculator.Duration(prev.arrivalTime, boardTime)
			w.rides.add(&patternRide[T]{
				previous:     prev,
				trip:         trip,
				tripIndex:    index,
				boardTime:    boardTime,
				waitTime:     waitTime,
				relativeCost: w.costCalculator.OnTripRidingCost(prev, waitTime, boardTime, trip),
			})
		}
	}
}

func (w *mcWorker[T]) alight(ride *patternRide[T], pattern TripPattern, pos, stop, round int) {
	alightTime := w.calculator.AlightTime(ride.trip, pos)
	arrivalTime := w.calculator.PlusDuration(alightTime, w.slack.alightSlack(pattern))
	if w.calculator.ExceedsTimeLimit(arrivalTime) {
		return
	}

	transitTime := w.calculator.Duration(ride.boardTime, alightTime)
	cost := ride.previous.cost + w.costCalculator.TransitArrivalCost(ride.previous, ride.waitTime, transitTime, stop, ride.trip)
	arrival := newTransitArrival(ride.previous, stop, arrivalTime, ride.boardTime, cost, round, ride.trip)
	if w.prunedByDestination(arrival) || !w.addArrival(arrival) {
		return
	}
	w.transitTouched.add(stop)

	for _, destination := range w.destinationArrivals(arrival) {
		w.destination.add(destination)
	}
}

func (w *mcWorker[T]) relaxTransfers(round int) {
	var sources []*StopArrival[T]
	for _, stop := range w.transitTouched.stops {
		// Copy first: a transfer back to the same stop would modify the set.
		sources = sources[:0]
		for _, arrival := range w.stopArrivals[stop].all() {
			if arrival.round == round && arrival.arrivedByTransit() {
				sources = append(sources, arrival)
			}
		}

		for _, transfer := range w.calculator.Transfers(w.data, stop) {
			for _, from := range sources {
				time := w.calculator.PlusDuration(from.arrivalTime, transfer.DurationInSeconds)
				if w.calculator.ExceedsTimeLimit(time) {
					continue
				}
				cost := from.cost + w.costCalculator.WalkCost(transfer.DurationInSeconds)
				arrival := newTransferArrival(from, transfer, time, cost)
				if !w.prunedByDestination(arrival) {
					w.addArrival(arrival)
				}
			}
		}
	}
}

func (w *mcWorker[T]) addArrival(arrival *StopArrival[T]) bool {
	set := w.stopArrivals[arrival.stop]
	if set == nil {
		calc := w.calculator
		set = newParetoSet(func(a, b *StopArrival[T]) bool {
			return calc.IsBetterOrEqual(a.arrivalTime, b.arrivalTime) &&
				a.cost <= b.cost &&
				a.rides <= b.rides &&
				(a.arrivedByTransit() || !b.arrivedByTransit())
		})
		w.stopArrivals[arrival.stop] = set
	}
	w.visited.add(arrival.stop)

	if !set.add(arrival) {
		return false
	}
	w.touched.add(arrival.stop)
	return true
}

// prunedByDestination reports whether a destination arrival already dominates
// anything this stop arrival could still lead to.
func (w *mcWorker[T]) prunedByDestination(arrival *StopArrival[T]) bool {
	if !w.optimizations.PruneAgainstDestination || w.destination.isEmpty() {
		return false
	}
	for _, d := range w.destination.all() {
		if w.calculator.IsBetterOrEqual(d.arrivalTime, arrival.arrivalTime) &&
			d.cost <= arrival.cost &&
			d.transfers <= arrival.rides-1 {
			return true
		}
	}
	return false
}

func (w *mcWorker[T]) boardingPrunedByDestination(prev *StopArrival[T], boardTime int) bool {
	if !w.optimizations.PruneAgainstDestination || w.destination.isEmpty() {
		return false
	}
	minCost := prev.cost + w.costCalculator.CalculateMinCost(0, 0)
	for _, d := range w.destination.all() {
		if w.calculator.IsBetterOrEqual(d.arrivalTime, boardTime) &&
			d.cost <= minCost &&
			d.transfers <= prev.rides {
			return true
		}
	}
	return false
}

func (w *mcWorker[T]) addPath(path *Path[T]) {
	key := path.Key()
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = struct{}{}
	w.results.add(path)
}

// paths returns the Pareto-optimal paths, cheapest first.
func (w *mcWorker[T]) paths() []*Path[T] {
	paths := slices.Clone(w.results.all())
	slices.SortStableFunc(paths, comparePathsByCost[T])
	return paths
}

// pathDominates compares paths in travel order, so it holds for both search
// directions: leave no earlier, arrive no later, no more transfers, no more cost.
func pathDominates[T TripSchedule](a, b *Path[T]) bool {
	return a.StartTime() >= b.StartTime() &&
		a.EndTime() <= b.EndTime() &&
		a.NumberOfTransfers() <= b.NumberOfTransfers() &&
		a.GeneralizedCost() <= b.GeneralizedCost()
}

func comparePathsByCost[T TripSchedule](a, b *Path[T]) int {
	return cmp.Or(
		cmp.Compare(a.GeneralizedCost(), b.GeneralizedCost()),
		cmp.Compare(a.EndTime(), b.EndTime()),
		cmp.Compare(b.StartTime(), a.StartTime()),
	)
}
