package raptor

import "math"

// costPrecision is the fixed-point scale of all costs inside a search.
const costPrecision = 100

// ToRaptorCost converts a cost or reluctance factor to fixed-point units.
func ToRaptorCost(domainValue float64) int {
	return int(math.Round(domainValue * costPrecision))
}

// ToDomainCost converts fixed-point units back to the natural cost unit, rounding half up.
func ToDomainCost(raptorCost int) int {
	if raptorCost < 0 {
		return -ToDomainCost(-raptorCost)
	}
	return (raptorCost + costPrecision/2) / costPrecision
}
