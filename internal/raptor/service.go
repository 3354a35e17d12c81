package raptor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"raptor.onebusaway.org/internal/logging"
)

// SearchStats summarizes one finished search.
type SearchStats struct {
	Profile    Profile
	Direction  SearchDirection
	Iterations int
	Paths      int
	Duration   time.Duration
	Err        error
}

// SearchObserver is notified after every search, including failed ones.
type SearchObserver interface {
	ObserveSearch(stats SearchStats)
}

// Response is the result of a search. An empty Paths slice means no journey was found.
type Response[T TripSchedule] struct {
	Paths      []*Path[T]
	Iterations int
	// SearchParams are the parameters the search ran with, window and bounds resolved.
	SearchParams SearchParams
}

// Service runs routing requests. It holds no per-request state and is safe for
// concurrent use as long as the transit data is not modified.
type Service[T TripSchedule] struct {
	logger   *slog.Logger
	observer SearchObserver
}

// NewService creates a routing service. Both arguments are optional.
func NewService[T TripSchedule](logger *slog.Logger, observer SearchObserver) *Service[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service[T]{logger: logger, observer: observer}
}

// Route runs a range search over the request's departure window. Invalid requests
// fail with an error matching ErrInvalidRequest before any scan. Reconstruction
// failures match ErrInternal. The context is checked between range iterations.
func (s *Service[T]) Route(ctx context.Context, request Request, data TransitDataProvider[T]) (*Response[T], error) {
	start := time.Now()
	response, err := s.route(ctx, &request, data)

	stats := SearchStats{
		Profile:   request.Profile,
		Direction: request.Direction,
		Duration:  time.Since(start),
		Err:       err,
	}
	if response != nil {
		stats.Iterations = response.Iterations
		stats.Paths = len(response.Paths)
	}
	logging.LogSearch(s.logger, request.Profile.String(), request.Direction.String(),
		stats.Iterations, stats.Paths, stats.Duration, err)
	if s.observer != nil {
		s.observer.ObserveSearch(stats)
	}

	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *Service[T]) route(ctx context.Context, request *Request, data TransitDataProvider[T]) (*Response[T], error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if err := validateStops(request.SearchParams, data.NumberOfStops()); err != nil {
		return nil, err
	}

	params := request.effectiveSearchParams()
	searchCtx := newSearchContext(request, params, data)

	var w worker[T]
	if request.Profile == MultiCriteria {
		w = newMcWorker(searchCtx)
	} else {
		w = newStdWorker(searchCtx)
	}

	iterations := searchCtx.calculator.RangeIterations()
	for i, startTime := range iterations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("routing stopped after %d of %d iterations: %w", i, len(iterations), err)
		}
		if err := w.routeIteration(startTime); err != nil {
			return nil, fmt.Errorf("range iteration starting at %d: %w", startTime, err)
		}
	}

	return &Response[T]{
		Paths:        w.paths(),
		Iterations:   len(iterations),
		SearchParams: params,
	}, nil
}

func validateStops(params SearchParams, numberOfStops int) error {
	var errs ValidationErrors
	check := func(field string, paths []Transfer) {
		for i, path := range paths {
			if path.Stop >= numberOfStops {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("SearchParams.%s[%d].Stop", field, i),
					Message: fmt.Sprintf("must be less than the number of stops (%d)", numberOfStops),
				})
			}
		}
	}
	check("AccessPaths", params.AccessPaths)
	check("EgressPaths", params.EgressPaths)

	if len(errs) > 0 {
		return errs
	}
	return nil
}
