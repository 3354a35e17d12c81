package transit

import "raptor.onebusaway.org/internal/raptor"

// Walk returns an access or egress walk costed at the default walk reluctance.
func Walk(stop, durationInSeconds int) raptor.Transfer {
	return WalkWithReluctance(stop, durationInSeconds, raptor.DefaultCostFactors().WalkReluctance)
}

// WalkWithReluctance returns an access or egress walk costed at the given reluctance.
func WalkWithReluctance(stop, durationInSeconds int, walkReluctance float64) raptor.Transfer {
	return raptor.Transfer{
		Stop:              stop,
		DurationInSeconds: durationInSeconds,
		Cost:              raptor.ToRaptorCost(walkReluctance * float64(durationInSeconds)),
	}
}

// Flex returns an access or egress path with flex rides, costed like a walk.
func Flex(stop, durationInSeconds, rides int) raptor.Transfer {
	path := Walk(stop, durationInSeconds)
	path.NumberOfRides = rides
	return path
}
