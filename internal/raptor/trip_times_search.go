package raptor

// Transit arrivals keep the trip and the time it was boarded at, not the stop
// positions. Leg times are recovered from those. A pattern can visit a stop more
// than once, so the scan anchors on the first position satisfying the time and
// only then looks for the stops.

// FindTripTimesAfter finds the times of a leg boarded at the first visit of
// boardStop departing at or after earliestDepartureTime, alighting at the next
// visit of alightStop.
func FindTripTimesAfter[T TripSchedule](trip T, boardStop, alightStop, earliestDepartureTime int) (TripTimes, error) {
	pattern := trip.Pattern()
	size := pattern.NumberOfStopsInPattern()
	i := 0

	for i < size && trip.Departure(i) < earliestDepartureTime {
		i++
	}
	if i == size {
		return TripTimes{}, tripNotFound(pattern, "no departure after the bound", "earliest departure", earliestDepartureTime, boardStop, alightStop)
	}

	for i < size && pattern.StopIndex(i) != boardStop {
		i++
	}
	if i == size {
		return TripTimes{}, tripNotFound(pattern, "board stop not found", "earliest departure", earliestDepartureTime, boardStop, alightStop)
	}
	times := TripTimes{BoardStop: boardStop, BoardTime: trip.Departure(i)}

	i++
	for i < size && pattern.StopIndex(i) != alightStop {
		i++
	}
	if i == size {
		return TripTimes{}, tripNotFound(pattern, "alight stop not found", "earliest departure", earliestDepartureTime, boardStop, alightStop)
	}
	times.AlightStop = alightStop
	times.AlightTime = trip.Arrival(i)
	return times, nil
}

// FindTripTimesBefore is the mirror of FindTripTimesAfter: it scans backward from
// the last position arriving at or before latestArrivalTime.
func FindTripTimesBefore[T TripSchedule](trip T, boardStop, alightStop, latestArrivalTime int) (TripTimes, error) {
	pattern := trip.Pattern()
	i := pattern.NumberOfStopsInPattern() - 1

	for i >= 0 && trip.Arrival(i) > latestArrivalTime {
		i--
	}
	if i < 0 {
		return TripTimes{}, tripNotFound(pattern, "no arrival before the bound", "latest arrival", latestArrivalTime, boardStop, alightStop)
	}

	for i >= 0 && pattern.StopIndex(i) != alightStop {
		i--
	}
	if i < 0 {
		return TripTimes{}, tripNotFound(pattern, "alight stop not found", "latest arrival", latestArrivalTime, boardStop, alightStop)
	}
	times := TripTimes{AlightStop: alightStop, AlightTime: trip.Arrival(i)}

	i--
	for i >= 0 && pattern.StopIndex(i) != boardStop {
		i--
	}
	if i < 0 {
		return TripTimes{}, tripNotFound(pattern, "board stop not found", "latest arrival", latestArrivalTime, boardStop, alightStop)
	}
	times.BoardStop = boardStop
	times.BoardTime = trip.Departure(i)
	return times, nil
}

func tripNotFound(pattern TripPattern, hint, boundLabel string, bound, fromStop, toStop int) error {
	return &TripNotFoundError{
		Hint:       hint,
		BoundLabel: boundLabel,
		BoundTime:  bound,
		FromStop:   fromStop,
		ToStop:     toStop,
		Pattern:    pattern.DebugInfo(),
	}
}
