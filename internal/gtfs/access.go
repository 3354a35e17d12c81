package gtfs

import (
	"cmp"
	"slices"

	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/transit"
	"raptor.onebusaway.org/internal/utils"
)

// NearbyStop is a stop and its straight-line distance in meters from a point.
type NearbyStop struct {
	Stop     Stop
	Distance float64
}

// StopsNear returns the served stops within radius meters of a point, nearest
// first, at most maxCount of them.
func (network *Network) StopsNear(lat, lon, radius float64, maxCount int) []NearbyStop {
	latSpan := utils.LatitudeSpan(radius)
	start, _ := slices.BinarySearchFunc(network.located, lat-latSpan, func(index int, target float64) int {
		return cmp.Compare(network.stops[index].Lat, target)
	})

	var candidates []NearbyStop
	for _, index := range network.located[start:] {
		stop := network.stops[index]
		if stop.Lat > lat+latSpan {
			break
		}
		distance := utils.Haversine(lat, lon, stop.Lat, stop.Lon)
		if distance <= radius {
			candidates = append(candidates, NearbyStop{stop, distance})
		}
	}

	slices.SortStableFunc(candidates, func(a, b NearbyStop) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Stop.Index, b.Stop.Index))
	})
	if maxCount > 0 && len(candidates) > maxCount {
		candidates = candidates[:maxCount]
	}
	return candidates
}

// WalkPaths returns straight-line walks between a point and the nearest stops,
// usable as access or egress paths.
func (network *Network) WalkPaths(lat, lon, walkReluctance float64) []raptor.Transfer {
	nearby := network.StopsNear(lat, lon, network.accessRadiusMeters, network.maxAccessStops)
	paths := make([]raptor.Transfer, 0, len(nearby))
	for _, candidate := range nearby {
		paths = append(paths, transit.WalkWithReluctance(candidate.Stop.Index, network.walkDuration(candidate.Distance), walkReluctance))
	}
	return paths
}

// StopPath is a zero-length access or egress at a known stop.
func (network *Network) StopPath(id string) (raptor.Transfer, bool) {
	stop, ok := network.StopByID(id)
	if !ok {
		return raptor.Transfer{}, false
	}
	return transit.Walk(stop.Index, 0), true
}
