package gtfs

import "time"

const (
	defaultWalkSpeed            = 1.33
	defaultTransferRadiusMeters = 400
	defaultAccessRadiusMeters   = 800
	defaultMaxAccessStops       = 10
	defaultRefreshInterval      = 24 * time.Hour
)

type Config struct {
	// GtfsURL is a local file path or an http(s) URL of a static GTFS zip.
	GtfsURL         string
	AuthHeaderKey   string
	AuthHeaderValue string

	// ServiceDate selects the trips that run; the zero value means today.
	ServiceDate time.Time

	// WalkSpeed is in meters per second.
	WalkSpeed            float64
	TransferRadiusMeters float64
	AccessRadiusMeters   float64
	MaxAccessStops       int

	// RefreshInterval applies to URL sources only.
	RefreshInterval time.Duration
	Verbose         bool
}

func (config Config) withDefaults() Config {
	if config.ServiceDate.IsZero() {
		config.ServiceDate = time.Now()
	}
	if config.WalkSpeed <= 0 {
		config.WalkSpeed = defaultWalkSpeed
	}
	if config.TransferRadiusMeters <= 0 {
		config.TransferRadiusMeters = defaultTransferRadiusMeters
	}
	if config.AccessRadiusMeters <= 0 {
		config.AccessRadiusMeters = defaultAccessRadiusMeters
	}
	if config.MaxAccessStops <= 0 {
		config.MaxAccessStops = defaultMaxAccessStops
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = defaultRefreshInterval
	}
	return config
}

func (config Config) authHeaders() map[string]string {
	headers := map[string]string{}
	if config.AuthHeaderKey != "" && config.AuthHeaderValue != "" {
		headers[config.AuthHeaderKey] = config.AuthHeaderValue
	}
	return headers
}
