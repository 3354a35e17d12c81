package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/raptor"
)

// Search outcomes used as the outcome label of raptor_searches_total.
const (
	OutcomeFound    = "found"
	OutcomeNoResult = "no_result"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Collector exposes routing and timetable metrics on its own registry. It
// implements raptor.SearchObserver.
type Collector struct {
	reg *prometheus.Registry

	Searches         *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	SearchIterations prometheus.Histogram
	PathsReturned    prometheus.Histogram

	TimetableStops     prometheus.Gauge
	TimetablePatterns  prometheus.Gauge
	TimetableTrips     prometheus.Gauge
	TimetableTransfers prometheus.Gauge
	TimetableUpdates   prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raptor_searches_total",
			Help: "Total routing searches.",
		}, []string{"profile", "direction", "outcome"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "raptor_search_duration_seconds",
			Help:    "Duration of routing searches.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"profile"}),
		SearchIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_search_iterations",
			Help:    "Range iterations per search.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		PathsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_paths_returned",
			Help:    "Paths returned per search.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		TimetableStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raptor_timetable_stops",
			Help: "Stops in the current timetable.",
		}),
		TimetablePatterns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raptor_timetable_patterns",
			Help: "Patterns in the current timetable.",
		}),
		TimetableTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raptor_timetable_trips",
			Help: "Trips running on the current service date.",
		}),
		TimetableTransfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raptor_timetable_transfers",
			Help: "Walking transfers in the current timetable.",
		}),
		TimetableUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raptor_timetable_updates_total",
			Help: "Number of timetable loads.",
		}),
	}

	reg.MustRegister(
		c.Searches, c.SearchDuration, c.SearchIterations, c.PathsReturned,
		c.TimetableStops, c.TimetablePatterns, c.TimetableTrips, c.TimetableTransfers,
		c.TimetableUpdates,
	)
	return c
}

// ObserveSearch records one finished search.
func (c *Collector) ObserveSearch(stats raptor.SearchStats) {
	profile := stats.Profile.String()
	c.Searches.WithLabelValues(profile, stats.Direction.String(), Outcome(stats)).Inc()
	c.SearchDuration.WithLabelValues(profile).Observe(stats.Duration.Seconds())

	if stats.Err == nil {
		c.SearchIterations.Observe(float64(stats.Iterations))
		c.PathsReturned.Observe(float64(stats.Paths))
	}
}

// Outcome classifies a search for the outcome label.
func Outcome(stats raptor.SearchStats) string {
	switch {
	case errors.Is(stats.Err, raptor.ErrInvalidRequest):
		return OutcomeInvalid
	case stats.Err != nil:
		return OutcomeError
	case stats.Paths == 0:
		return OutcomeNoResult
	default:
		return OutcomeFound
	}
}

// SetTimetable records the size of a newly loaded network. It has the
// signature expected by gtfs.Manager.OnUpdate.
func (c *Collector) SetTimetable(stats gtfs.NetworkStats) {
	c.TimetableStops.Set(float64(stats.Stops))
	c.TimetablePatterns.Set(float64(stats.Patterns))
	c.TimetableTrips.Set(float64(stats.Trips))
	c.TimetableTransfers.Set(float64(stats.Transfers))
	c.TimetableUpdates.Inc()
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
