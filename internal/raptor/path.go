package raptor

import (
	"fmt"
	"strconv"
	"strings"

	"raptor.onebusaway.org/internal/utils"
)

// LegKind tags the legs of a path. The set is closed.
type LegKind int

const (
	AccessLeg LegKind = iota
	TransitLeg
	TransferLeg
	EgressLeg
)

func (k LegKind) String() string {
	switch k {
	case AccessLeg:
		return "access"
	case TransitLeg:
		return "transit"
	case TransferLeg:
		return "transfer"
	case EgressLeg:
		return "egress"
	default:
		return "unknown"
	}
}

// PathLeg is one leg of a path in travel order. Access legs start at NoStop and
// egress legs end at NoStop. Trip is only set on transit legs and NumberOfRides
// only on access and egress legs.
type PathLeg[T TripSchedule] struct {
	Kind          LegKind
	FromStop      int
	FromTime      int
	ToStop        int
	ToTime        int
	Cost          int
	Trip          T
	NumberOfRides int
}

func (l PathLeg[T]) Duration() int {
	return l.ToTime - l.FromTime
}

// Path is an itinerary from origin to destination. Paths are immutable.
type Path[T TripSchedule] struct {
	legs              []PathLeg[T]
	numberOfTransfers int
	cost              int
}

func newPath[T TripSchedule](legs []PathLeg[T], numberOfTransfers, cost int) *Path[T] {
	return &Path[T]{legs: legs, numberOfTransfers: numberOfTransfers, cost: cost}
}

// Legs returns the legs in travel order; the slice must not be modified.
func (p *Path[T]) Legs() []PathLeg[T] { return p.legs }

func (p *Path[T]) StartTime() int { return p.legs[0].FromTime }
func (p *Path[T]) EndTime() int   { return p.legs[len(p.legs)-1].ToTime }
func (p *Path[T]) Duration() int  { return p.EndTime() - p.StartTime() }

// NumberOfTransfers counts vehicle changes, including flex rides in the access
// and egress paths.
func (p *Path[T]) NumberOfTransfers() int { return p.numberOfTransfers }

// GeneralizedCost is the total cost in fixed-point units.
func (p *Path[T]) GeneralizedCost() int { return p.cost }

// Cost is the total cost in the natural unit.
func (p *Path[T]) Cost() int { return ToDomainCost(p.cost) }

// Key identifies a path by its leg kinds, stops and times. Two paths with equal
// keys are the same itinerary even if their costs differ.
func (p *Path[T]) Key() string {
	var b strings.Builder
	for _, leg := range p.legs {
		b.WriteString(strconv.Itoa(int(leg.Kind)))
		for _, v := range [...]int{leg.FromStop, leg.FromTime, leg.ToStop, leg.ToTime} {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte('|')
	}
	return b.String()
}

// Equal compares the stops and times of every leg.
func (p *Path[T]) Equal(other *Path[T]) bool {
	if len(p.legs) != len(other.legs) {
		return false
	}
	for i, leg := range p.legs {
		o := other.legs[i]
		if leg.Kind != o.Kind || leg.FromStop != o.FromStop || leg.FromTime != o.FromTime ||
			leg.ToStop != o.ToStop || leg.ToTime != o.ToTime {
			return false
		}
	}
	return true
}

// String renders the path compactly, for example
// "Walk 3m ~ 3 ~ BUS R1 0:14 0:20 ~ 6 ~ Walk 1s [00:11:00 00:20:01 9m1s, cost: 1684]".
func (p *Path[T]) String() string {
	var b strings.Builder
	for i, leg := range p.legs {
		if i > 0 {
			fmt.Fprintf(&b, " ~ %d ~ ", leg.FromStop)
		}
		switch leg.Kind {
		case AccessLeg, EgressLeg:
			b.WriteString(accessEgressString(leg.Duration(), leg.NumberOfRides))
		case TransferLeg:
			b.WriteString("Walk " + utils.FormatDuration(leg.Duration()))
		case TransitLeg:
			fmt.Fprintf(&b, "%s %s %s", leg.Trip.Pattern().DebugInfo(),
				utils.FormatClockShort(leg.FromTime), utils.FormatClockShort(leg.ToTime))
		}
	}
	fmt.Fprintf(&b, " [%s %s %s, cost: %d]", utils.FormatClock(p.StartTime()),
		utils.FormatClock(p.EndTime()), utils.FormatDuration(p.Duration()), p.Cost())
	return b.String()
}

func accessEgressString(duration, rides int) string {
	if rides > 0 {
		return fmt.Sprintf("Flex %s %dtx", utils.FormatDuration(duration), rides)
	}
	return "Walk " + utils.FormatDuration(duration)
}
