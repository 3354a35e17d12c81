package raptor

// stdWorker is the single-criterion worker. It keeps one arrival per stop and
// round, and keeps its state between range iterations: anything reachable from
// a later start is reachable from an earlier one, so an earlier iteration only
// records what it improves.
type stdWorker[T TripSchedule] struct {
	*searchContext[T]

	// arrivals[round][stop] is the arrival that reached the stop in the round.
	arrivals [][]*StopArrival[T]

	best                 []*StopArrival[T]
	bestIteration        []int
	bestTransit          []*StopArrival[T]
	bestTransitIteration []int
	// roundTransit holds this round's transit arrivals, the sources of transfers.
	roundTransit []*StopArrival[T]

	reachedPrevRound *stopSet
	reachedCurrRound *stopSet
	transitReached   *stopSet

	destination          *destinationArrival[T]
	destinationIteration int
	destinationImproved  bool

	iteration  int
	candidates []*Path[T]
}

func newStdWorker[T TripSchedule](ctx *searchContext[T]) *stdWorker[T] {
	nStops := ctx.data.NumberOfStops()
	return &stdWorker[T]{
		searchContext:        ctx,
		arrivals:             make([][]*StopArrival[T], ctx.maxRounds+1),
		best:                 make([]*StopArrival[T], nStops),
		bestIteration:        make([]int, nStops),
		bestTransit:          make([]*StopArrival[T], nStops),
		bestTransitIteration: make([]int, nStops),
		roundTransit:         make([]*StopArrival[T], nStops),
		reachedPrevRound:     newStopSet(nStops),
		reachedCurrRound:     newStopSet(nStops),
		transitReached:       newStopSet(nStops),
	}
}

func (w *stdWorker[T]) routeIteration(iterationStartTime int) error {
	w.iteration++
	w.destinationImproved = false
	w.reachedPrevRound.clear()
	w.reachedCurrRound.clear()

	w.lifeCycle.prepareForNextRound(0)
	for _, access := range w.accessPaths {
		time, cost := w.traverse(access, iterationStartTime)
		if w.calculator.ExceedsTimeLimit(time) || w.prunedByDestination(time) {
			continue
		}
		if w.improves(w.best[access.Stop], w.bestIteration[access.Stop], time, cost, 0) {
			w.setArrival(0, newAccessArrival[T](access, time, cost))
		}
	}

	for round := 1; round <= w.maxRounds && !w.reachedCurrRound.isEmpty(); round++ {
		w.lifeCycle.prepareForNextRound(round)
		w.reachedPrevRound, w.reachedCurrRound = w.reachedCurrRound, w.reachedPrevRound
		w.reachedCurrRound.clear()
		w.transitReached.clear()

		for _, route := range w.data.RoutesForStops(w.reachedPrevRound.stops) {
			w.scanRoute(route, round)
		}
		w.relaxTransfers(round)
	}

	if !w.destinationImproved {
		return nil
	}
	path, err := w.pathMapper.mapToPath(w.destination)
	if err != nil {
		return err
	}
	w.candidates = append(w.candidates, path)
	return nil
}

// scanRoute rides the best boardable trip along the pattern, switching to a
// better trip wherever a stop reached in the previous round allows it.
func (w *stdWorker[T]) scanRoute(route Route[T], round int) {
	pattern := route.Pattern()
	timetable := route.Timetable()

	var (
		onTrip      bool
		trip        T
		tripIndex   int
		boardedFrom *StopArrival[T]
		boardTime   int
	)

	for it := w.calculator.StopPositions(pattern); it.HasNext(); {
		pos := it.Next()
		stop := pattern.StopIndex(pos)

		if onTrip {
			w.alight(boardedFrom, trip, boardTime, pattern, pos, stop, round)
		}

		if !w.reachedPrevRound.has(stop) {
			continue
		}
		prev := w.arrivals[round-1][stop]
		boundTime := w.calculator.PlusDuration(prev.arrivalTime, w.slack.boardSlack(round, pattern))
		index, found := w.calculator.SearchTrip(timetable, pos, boundTime)
		if !found || (onTrip && w.calculator.IsBetterOrEqualTripIndex(tripIndex, index)) {
			continue
		}
		onTrip, tripIndex, boardedFrom = true, index, prev
		trip = timetable.TripSchedule(index)
		boardTime = w.calculator.BoardTime(trip, pos)
	}
}

func (w *stdWorker[T]) alight(boardedFrom *StopArrival[T], trip T, boardTime int, pattern TripPattern, pos, stop, round int) {
	alightTime := w.calculator.AlightTime(trip, pos)
	arrivalTime := w.calculator.PlusDuration(alightTime, w.slack.alightSlack(pattern))
	if w.calculator.ExceedsTimeLimit(arrivalTime) || w.prunedByDestination(arrivalTime) {
		return
	}

	waitTime := w.calculator.Duration(boardedFrom.arrivalTime, boardTime)
	transitTime := w.calculator.Duration(boardTime, alightTime)
	cost := boardedFrom.cost + w.costCalculator.TransitArrivalCost(boardedFrom, waitTime, transitTime, stop, trip)

	if !w.improves(w.bestTransit[stop], w.bestTransitIteration[stop], arrivalTime, cost, round) {
		return
	}
	arrival := newTransitArrival(boardedFrom, stop, arrivalTime, boardTime, cost, round, trip)
	w.bestTransit[stop] = arrival
	w.bestTransitIteration[stop] = w.iteration
	w.roundTransit[stop] = arrival
	w.transitReached.add(stop)

	if w.improves(w.best[stop], w.bestIteration[stop], arrivalTime, cost, round) {
		w.setArrival(round, arrival)
	}
	for _, destination := range w.destinationArrivals(arrival) {
		w.updateDestination(destination)
	}
}

func (w *stdWorker[T]) relaxTransfers(round int) {
	for _, stop := range w.transitReached.stops {
		from := w.roundTransit[stop]
		for _, transfer := range w.calculator.Transfers(w.data, stop) {
			time := w.calculator.PlusDuration(from.arrivalTime, transfer.DurationInSeconds)
			if w.calculator.ExceedsTimeLimit(time) || w.prunedByDestination(time) {
				continue
			}
			cost := from.cost + w.costCalculator.WalkCost(transfer.DurationInSeconds)
			if w.improves(w.best[transfer.Stop], w.bestIteration[transfer.Stop], time, cost, round) {
				w.setArrival(round, newTransferArrival(from, transfer, time, cost))
			}
		}
	}
}

// improves reports whether a new arrival beats the current one: a better time,
// or the same time in the same round of this iteration at a lower cost. A tie
// with an earlier iteration keeps the journey that leaves later.
func (w *stdWorker[T]) improves(current *StopArrival[T], currentIteration, time, cost, round int) bool {
	if current == nil || w.calculator.IsBefore(time, current.arrivalTime) {
		return true
	}
	return time == current.arrivalTime &&
		currentIteration == w.iteration &&
		round == current.round &&
		cost < current.cost
}

func (w *stdWorker[T]) setArrival(round int, arrival *StopArrival[T]) {
	if w.arrivals[round] == nil {
		w.arrivals[round] = make([]*StopArrival[T], len(w.best))
	}
	w.arrivals[round][arrival.stop] = arrival
	w.best[arrival.stop] = arrival
	w.bestIteration[arrival.stop] = w.iteration
	w.reachedCurrRound.add(arrival.stop)
}

func (w *stdWorker[T]) updateDestination(arrival *destinationArrival[T]) {
	current := w.destination
	if current != nil && !w.calculator.IsBefore(arrival.arrivalTime, current.arrivalTime) {
		if arrival.arrivalTime != current.arrivalTime || w.destinationIteration != w.iteration {
			return
		}
		if arrival.transfers > current.transfers ||
			(arrival.transfers == current.transfers && arrival.cost >= current.cost) {
			return
		}
	}
	w.destination = arrival
	w.destinationIteration = w.iteration
	w.destinationImproved = true
}

// prunedByDestination reports whether a journey at this time can no longer
// improve the destination.
func (w *stdWorker[T]) prunedByDestination(time int) bool {
	return w.destination != nil && w.calculator.IsBefore(w.destination.arrivalTime, time)
}

func (w *stdWorker[T]) paths() []*Path[T] {
	var best *Path[T]
	for _, path := range w.candidates {
		if best == nil || w.calculator.IsBetterPath(path, best) {
			best = path
		}
	}
	if best == nil {
		return nil
	}
	return []*Path[T]{best}
}
