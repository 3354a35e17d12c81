package raptor

// ArrivalKind is how a stop was reached.
type ArrivalKind int

const (
	AccessArrival ArrivalKind = iota
	TransitArrival
	TransferArrival
)

// StopArrival is one reached stop. It is immutable once created and links to the
// arrival it was reached from; access arrivals end the chain.
type StopArrival[T TripSchedule] struct {
	previous    *StopArrival[T]
	kind        ArrivalKind
	stop        int
	arrivalTime int
	cost        int
	round       int
	rides       int
	trip        T
	// boardTime is where the trip was boarded, in search order. A pattern can
	// visit the boarded stop more than once.
	boardTime int
	transfer  Transfer
}

func newAccessArrival[T TripSchedule](access Transfer, arrivalTime, cost int) *StopArrival[T] {
	return &StopArrival[T]{
		kind:        AccessArrival,
		stop:        access.Stop,
		arrivalTime: arrivalTime,
		cost:        cost,
		rides:       access.NumberOfRides,
		transfer:    access,
	}
}

func newTransitArrival[T TripSchedule](previous *StopArrival[T], stop, arrivalTime, boardTime, cost, round int, trip T) *StopArrival[T] {
	return &StopArrival[T]{
		previous:    previous,
		kind:        TransitArrival,
		stop:        stop,
		arrivalTime: arrivalTime,
		cost:        cost,
		round:       round,
		rides:       previous.rides + 1,
		trip:        trip,
		boardTime:   boardTime,
	}
}

func newTransferArrival[T TripSchedule](previous *StopArrival[T], transfer Transfer, arrivalTime, cost int) *StopArrival[T] {
	return &StopArrival[T]{
		previous:    previous,
		kind:        TransferArrival,
		stop:        transfer.Stop,
		arrivalTime: arrivalTime,
		cost:        cost,
		round:       previous.round,
		rides:       previous.rides,
		transfer:    transfer,
	}
}

func (a *StopArrival[T]) Previous() *StopArrival[T] { return a.previous }
func (a *StopArrival[T]) Kind() ArrivalKind         { return a.kind }
func (a *StopArrival[T]) Stop() int                 { return a.stop }
func (a *StopArrival[T]) ArrivalTime() int          { return a.arrivalTime }
func (a *StopArrival[T]) Cost() int                 { return a.cost }
func (a *StopArrival[T]) Round() int                { return a.round }

// Rides counts transit boardings plus flex rides of the access path.
func (a *StopArrival[T]) Rides() int { return a.rides }
func (a *StopArrival[T]) Trip() T    { return a.trip }

// Transfer is the access path or transfer edge of a non-transit arrival.
func (a *StopArrival[T]) Transfer() Transfer { return a.transfer }

func (a *StopArrival[T]) arrivedByTransit() bool {
	return a.kind == TransitArrival
}

// destinationArrival is a journey reaching the destination through an egress path.
type destinationArrival[T TripSchedule] struct {
	previous    *StopArrival[T]
	egress      Transfer
	arrivalTime int
	cost        int
	transfers   int
}

func newDestinationArrival[T TripSchedule](previous *StopArrival[T], egress Transfer, arrivalTime, cost int) *destinationArrival[T] {
	return &destinationArrival[T]{
		previous:    previous,
		egress:      egress,
		arrivalTime: arrivalTime,
		cost:        cost,
		transfers:   previous.rides + egress.NumberOfRides - 1,
	}
}
