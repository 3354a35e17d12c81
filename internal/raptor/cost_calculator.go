package raptor

// CostCalculator computes generalized cost contributions in fixed-point units.
type CostCalculator[T TripSchedule] interface {
	// OnTripRidingCost is the cost of a boarding candidate while the alight stop is
	// still unknown. It uses a relative ride time, so only candidates on the same
	// pattern can be compared.
	OnTripRidingCost(previousArrival *StopArrival[T], waitTime, boardTime int, trip T) int

	// TransitArrivalCost is the full cost of a transit leg, excluding the cost
	// accumulated before boarding.
	TransitArrivalCost(previousArrival *StopArrival[T], waitTime, transitTime, toStop int, trip T) int

	WalkCost(walkTimeInSeconds int) int
	WaitCost(waitTimeInSeconds int) int

	// CalculateMinCost is a lower bound for any journey with the given minimum travel
	// time and number of transfers.
	CalculateMinCost(minTravelTime, minNumTransfers int) int
}

// DefaultCostCalculator is the linear cost model: board cost, ride time, and
// reluctance-weighted walk and wait time, plus optional stop visit costs.
//
// Waiting before the first boarding is free: the access is time-shifted to
// remove it, so the wait factor only applies from round 2.
type DefaultCostCalculator[T TripSchedule] struct {
	boardCost         int
	walkFactor        int
	waitFactor        int
	transitFactor     int
	waitFactorApplied int
	stopVisitCost     []int
	calculator        TransitCalculator[T]
}

// NewCostCalculator creates a cost calculator for one search.
func NewCostCalculator[T TripSchedule](factors CostFactors, calculator TransitCalculator[T]) *DefaultCostCalculator[T] {
	return &DefaultCostCalculator[T]{
		boardCost:     ToRaptorCost(float64(factors.BoardCost)),
		walkFactor:    ToRaptorCost(factors.WalkReluctance),
		waitFactor:    ToRaptorCost(factors.WaitReluctance),
		transitFactor: ToRaptorCost(1.0),
		stopVisitCost: factors.StopVisitCost,
		calculator:    calculator,
	}
}

// PrepareForNextRound switches the wait factor on from round 2.
func (c *DefaultCostCalculator[T]) PrepareForNextRound(round int) {
	if round < 2 {
		c.waitFactorApplied = 0
	} else {
		c.waitFactorApplied = c.waitFactor
	}
}

func (c *DefaultCostCalculator[T]) OnTripRidingCost(prev *StopArrival[T], waitTime, boardTime int, _ T) int {
	return prev.Cost() +
		c.waitFactorApplied*waitTime +
		c.transitFactor*c.calculator.RelativeRideTime(boardTime) +
		c.boardCost +
		c.stopCost(prev.Stop())
}

func (c *DefaultCostCalculator[T]) TransitArrivalCost(prev *StopArrival[T], waitTime, transitTime, toStop int, _ T) int {
	return c.waitFactorApplied*waitTime +
		c.transitFactor*transitTime +
		c.boardCost +
		c.stopCost(prev.Stop()) +
		c.stopCost(toStop)
}

func (c *DefaultCostCalculator[T]) WalkCost(walkTimeInSeconds int) int {
	return c.walkFactor * walkTimeInSeconds
}

func (c *DefaultCostCalculator[T]) WaitCost(waitTimeInSeconds int) int {
	return c.waitFactor * waitTimeInSeconds
}

func (c *DefaultCostCalculator[T]) CalculateMinCost(minTravelTime, minNumTransfers int) int {
	return c.boardCost*(minNumTransfers+1) + c.transitFactor*minTravelTime
}

func (c *DefaultCostCalculator[T]) stopCost(stop int) int {
	if stop < 0 || stop >= len(c.stopVisitCost) {
		return 0
	}
	return c.stopVisitCost[stop]
}
