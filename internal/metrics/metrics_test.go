package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/raptor"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		stats    raptor.SearchStats
		expected string
	}{
		{name: "paths found", stats: raptor.SearchStats{Paths: 2}, expected: OutcomeFound},
		{name: "no paths", stats: raptor.SearchStats{}, expected: OutcomeNoResult},
		{name: "invalid request", stats: raptor.SearchStats{Err: raptor.ValidationErrors{{Field: "f", Message: "m"}}}, expected: OutcomeInvalid},
		{name: "wrapped internal error", stats: raptor.SearchStats{Err: fmt.Errorf("iteration: %w", raptor.ErrInternal)}, expected: OutcomeError},
		{name: "cancelled", stats: raptor.SearchStats{Err: errors.New("context canceled")}, expected: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Outcome(tt.stats))
		})
	}
}

func TestObserveSearch(t *testing.T) {
	c := NewCollector()

	c.ObserveSearch(raptor.SearchStats{
		Profile:    raptor.MultiCriteria,
		Direction:  raptor.Forward,
		Iterations: 60,
		Paths:      3,
		Duration:   12 * time.Millisecond,
	})
	c.ObserveSearch(raptor.SearchStats{
		Profile:   raptor.Standard,
		Direction: raptor.Reverse,
		Duration:  time.Millisecond,
		Err:       raptor.ValidationErrors{{Field: "SearchParams.AccessPaths", Message: "is required"}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues("multi_criteria", "forward", OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues("standard", "reverse", OutcomeInvalid)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.Searches))
	assert.Equal(t, 2, testutil.CollectAndCount(c.SearchDuration))

	// Failed searches do not report iterations or paths.
	assert.Equal(t, 1, histogramCount(t, c, "raptor_search_iterations"))
	assert.Equal(t, 1, histogramCount(t, c, "raptor_paths_returned"))
}

func TestSetTimetable(t *testing.T) {
	c := NewCollector()

	c.SetTimetable(gtfs.NetworkStats{Stops: 5, Patterns: 3, Trips: 5, Transfers: 4})
	c.SetTimetable(gtfs.NetworkStats{Stops: 5, Patterns: 1, Trips: 1, Transfers: 4})

	assert.Equal(t, 5.0, testutil.ToFloat64(c.TimetableStops))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TimetablePatterns))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TimetableTrips))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.TimetableTransfers))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.TimetableUpdates))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.SetTimetable(gtfs.NetworkStats{Patterns: 3})
	c.ObserveSearch(raptor.SearchStats{Profile: raptor.Standard, Paths: 1})

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "raptor_timetable_patterns 3")
	assert.Contains(t, string(body), `raptor_searches_total{direction="forward",outcome="found",profile="standard"} 1`)
	assert.NotContains(t, string(body), "go_goroutines", "only raptor series are registered")
}

func histogramCount(t *testing.T, c *Collector, name string) int {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return int(family.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
