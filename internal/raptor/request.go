package raptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile selects the worker used for a search.
type Profile int

const (
	// Standard finds the single best journey by arrival time.
	Standard Profile = iota
	// MultiCriteria finds every journey that is Pareto-optimal on departure time,
	// arrival time, number of transfers and generalized cost.
	MultiCriteria
)

func (p Profile) String() string {
	if p == MultiCriteria {
		return "multi_criteria"
	}
	return "standard"
}

// SearchDirection selects whether a search runs forward from the origin or in
// reverse from the destination.
type SearchDirection int

const (
	Forward SearchDirection = iota
	Reverse
)

func (d SearchDirection) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

const (
	DefaultMaxNumberOfTransfers = 12
	// rangeIterationStep is the distance between two range iteration start times.
	rangeIterationStep = 60
)

// SearchParams holds the time bounds and the access and egress paths of a request.
// Times are seconds after the start of the service day; NotSet marks a missing bound.
type SearchParams struct {
	EarliestDepartureTime int
	LatestArrivalTime     int
	// SearchWindowInSeconds is the width of the departure range. Zero means derive it
	// from the two time bounds when both are set.
	SearchWindowInSeconds int        `validate:"gte=0"`
	MaxNumberOfTransfers  int        `validate:"gte=0"`
	AccessPaths           []Transfer `validate:"required,min=1,dive"`
	EgressPaths           []Transfer `validate:"required,min=1,dive"`
}

// NewSearchParams returns parameters with both bounds unset and default limits.
func NewSearchParams() SearchParams {
	return SearchParams{
		EarliestDepartureTime: NotSet,
		LatestArrivalTime:     NotSet,
		MaxNumberOfTransfers:  DefaultMaxNumberOfTransfers,
	}
}

func (p SearchParams) IsEarliestDepartureTimeSet() bool {
	return p.EarliestDepartureTime != NotSet
}

func (p SearchParams) IsLatestArrivalTimeSet() bool {
	return p.LatestArrivalTime != NotSet
}

// CostFactors configures the generalized cost model.
type CostFactors struct {
	// BoardCost is the penalty per boarding, in seconds-equivalent.
	BoardCost      int     `validate:"gte=0"`
	WalkReluctance float64 `validate:"gte=0"`
	WaitReluctance float64 `validate:"gte=0"`
	// StopVisitCost is an optional per-stop penalty in fixed-point units, charged
	// when boarding or alighting at the stop.
	StopVisitCost []int `validate:"omitempty,dive,gte=0"`
}

// DefaultCostFactors returns the default cost model.
func DefaultCostFactors() CostFactors {
	return CostFactors{
		BoardCost:      600,
		WalkReluctance: 4.0,
		WaitReluctance: 1.0,
	}
}

// Optimizations toggles search optimizations that do not change the result set
// for non-negative costs.
type Optimizations struct {
	PruneAgainstDestination bool
}

// Request is a single routing request.
type Request struct {
	Profile       Profile
	Direction     SearchDirection
	SearchParams  SearchParams
	Slack         SlackProvider
	CostFactors   CostFactors
	Optimizations Optimizations
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every problem with the request as ValidationErrors.
func (r *Request) Validate() error {
	var errs ValidationErrors

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating request: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fieldName(fe.Namespace()),
				Message: validationMessage(fe),
			})
		}
	}

	p := r.SearchParams
	if !p.IsEarliestDepartureTimeSet() && !p.IsLatestArrivalTimeSet() {
		errs = append(errs, ValidationError{
			Field:   "SearchParams.EarliestDepartureTime",
			Message: "or SearchParams.LatestArrivalTime is required",
		})
	} else if p.IsEarliestDepartureTimeSet() && p.IsLatestArrivalTimeSet() &&
		p.LatestArrivalTime < p.EarliestDepartureTime {
		errs = append(errs, ValidationError{
			Field:   "SearchParams.LatestArrivalTime",
			Message: "must not be before SearchParams.EarliestDepartureTime",
		})
	}

	// A single bound only describes a range when a window is given.
	if p.SearchWindowInSeconds == 0 {
		if r.Direction == Forward && !p.IsEarliestDepartureTimeSet() && p.IsLatestArrivalTimeSet() {
			errs = append(errs, ValidationError{
				Field:   "SearchParams.SearchWindowInSeconds",
				Message: "is required for a forward search without an earliest departure time",
			})
		}
		if r.Direction == Reverse && !p.IsLatestArrivalTimeSet() && p.IsEarliestDepartureTimeSet() {
			errs = append(errs, ValidationError{
				Field:   "SearchParams.SearchWindowInSeconds",
				Message: "is required for a reverse search without a latest arrival time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// effectiveSearchParams resolves the window and the missing bound the way the
// search will use them. The request must be valid.
func (r *Request) effectiveSearchParams() SearchParams {
	p := r.SearchParams
	if p.SearchWindowInSeconds == 0 && p.IsEarliestDepartureTimeSet() && p.IsLatestArrivalTimeSet() {
		p.SearchWindowInSeconds = p.LatestArrivalTime - p.EarliestDepartureTime
	}
	if r.Direction == Forward && !p.IsEarliestDepartureTimeSet() {
		p.EarliestDepartureTime = p.LatestArrivalTime - p.SearchWindowInSeconds
	}
	if r.Direction == Reverse && !p.IsLatestArrivalTimeSet() {
		p.LatestArrivalTime = p.EarliestDepartureTime + p.SearchWindowInSeconds
	}
	return p
}

func fieldName(namespace string) string {
	return strings.TrimPrefix(namespace, "Request.")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
