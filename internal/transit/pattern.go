package transit

import "raptor.onebusaway.org/internal/raptor"

// Pattern is the stop sequence shared by the trips of a route.
type Pattern struct {
	name  string
	mode  raptor.TransitMode
	stops []int
}

// NewPattern creates a pattern. The name is used in debug output only.
func NewPattern(name string, mode raptor.TransitMode, stops ...int) *Pattern {
	return &Pattern{name: name, mode: mode, stops: stops}
}

func (p *Pattern) Name() string { return p.name }

func (p *Pattern) Stops() []int { return p.stops }

func (p *Pattern) StopIndex(stopPositionInPattern int) int {
	return p.stops[stopPositionInPattern]
}

func (p *Pattern) NumberOfStopsInPattern() int {
	return len(p.stops)
}

func (p *Pattern) Mode() raptor.TransitMode {
	return p.mode
}

// DebugInfo is the mode followed by the name, e.g. "BUS R1".
func (p *Pattern) DebugInfo() string {
	return p.mode.String() + " " + p.name
}
