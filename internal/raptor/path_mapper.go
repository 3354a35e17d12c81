package raptor

import "fmt"

// pathMapper turns a destination arrival into a Path. Leg times are canonical
// for both search directions: the access leaves as late as possible, transfers
// start right after alighting and the egress starts right after alighting.
type pathMapper[T TripSchedule] struct {
	calculator TransitCalculator[T]
	// source is the configured slack, used to lay out legs in travel order.
	source SlackProvider
}

func newPathMapper[T TripSchedule](calculator TransitCalculator[T], source SlackProvider) *pathMapper[T] {
	return &pathMapper[T]{
		calculator: calculator,
		source:     source,
	}
}

func (m *pathMapper[T]) mapToPath(destination *destinationArrival[T]) (*Path[T], error) {
	var chain []*StopArrival[T]
	for a := destination.previous; a != nil; a = a.previous {
		chain = append(chain, a)
	}
	m.calculator.ForwardOrder(chain)

	first, last := chain[0], chain[len(chain)-1]
	var (
		access, egress         Transfer
		accessCost, egressCost int
	)
	if first.kind == AccessArrival {
		access, accessCost = first.transfer, first.cost
		egress, egressCost = destination.egress, destination.cost-last.cost
	} else {
		access, accessCost = destination.egress, destination.cost-first.cost
		egress, egressCost = last.transfer, last.cost
	}

	legs := make([]PathLeg[T], 0, 2*len(chain)+1)
	legs = append(legs, PathLeg[T]{Kind: AccessLeg, FromStop: NoStop, ToStop: first.stop, Cost: accessCost, NumberOfRides: access.NumberOfRides})

	lastTransit := -1
	for i := 1; i < len(chain); i++ {
		hop := hopOwner(chain[i-1], chain[i])
		cost := hop.cost - hop.previous.cost

		switch hop.kind {
		case TransitArrival:
			times, err := m.calculator.FindTripTimes(hop.trip, hop.previous.stop, hop.stop, hop.boardTime)
			if err != nil {
				return nil, fmt.Errorf("reconstructing transit leg of round %d: %w", hop.round, err)
			}
			legs = append(legs, PathLeg[T]{
				Kind:     TransitLeg,
				FromStop: times.BoardStop,
				FromTime: times.BoardTime,
				ToStop:   times.AlightStop,
				ToTime:   times.AlightTime,
				Cost:     cost,
				Trip:     hop.trip,
			})
			lastTransit = len(legs) - 1
		case TransferArrival:
			if lastTransit < 0 {
				return nil, fmt.Errorf("%w: transfer from stop %d is not preceded by a transit leg", ErrInternal, chain[i-1].stop)
			}
			from := m.alightedAt(legs[lastTransit])
			legs = append(legs, PathLeg[T]{
				Kind:     TransferLeg,
				FromStop: chain[i-1].stop,
				FromTime: from,
				ToStop:   chain[i].stop,
				ToTime:   from + hop.transfer.DurationInSeconds,
				Cost:     cost,
			})
		default:
			return nil, fmt.Errorf("%w: unexpected %v arrival at stop %d inside a path", ErrInternal, hop.kind, hop.stop)
		}
	}
	if lastTransit < 0 {
		return nil, fmt.Errorf("%w: path to stop %d has no transit leg", ErrInternal, last.stop)
	}

	firstTransit := legs[1]
	accessTo := firstTransit.FromTime - m.source.BoardSlack(firstTransit.Trip.Pattern().Mode())
	if access.HasRides() {
		accessTo -= m.source.TransferSlack()
	}
	legs[0].FromTime = accessTo - access.DurationInSeconds
	legs[0].ToTime = accessTo

	egressFrom := m.alightedAt(legs[lastTransit])
	if egress.HasRides() {
		egressFrom += m.source.TransferSlack()
	}
	legs = append(legs, PathLeg[T]{
		Kind:          EgressLeg,
		FromStop:      last.stop,
		FromTime:      egressFrom,
		ToStop:        NoStop,
		ToTime:        egressFrom + egress.DurationInSeconds,
		Cost:          egressCost,
		NumberOfRides: egress.NumberOfRides,
	})

	return newPath(legs, destination.transfers, destination.cost), nil
}

// alightedAt is the time a rider is ready to walk after a transit leg.
func (m *pathMapper[T]) alightedAt(transit PathLeg[T]) int {
	return transit.ToTime + m.source.AlightSlack(transit.Trip.Pattern().Mode())
}

// hopOwner returns the arrival that was created from the other one; which of two
// neighbours in travel order that is depends on the search direction.
func hopOwner[T TripSchedule](a, b *StopArrival[T]) *StopArrival[T] {
	if b.previous == a {
		return b
	}
	return a
}
