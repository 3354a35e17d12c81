package appconf

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/logging"
)

// EnvPrefix is the prefix of environment variables that override flag defaults,
// e.g. RAPTOR_GTFS_URL for -gtfs-url.
const EnvPrefix = "RAPTOR_"

// Config holds all the configuration settings for the application.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	// RateLimitExemptKeys are API keys the rate limiter never throttles.
	RateLimitExemptKeys []string

	GtfsURL             string
	GtfsAuthHeaderKey   string
	GtfsAuthHeaderValue string
	// ServiceDate is YYYY-MM-DD; empty means today.
	ServiceDate          string
	WalkSpeed            float64
	TransferRadiusMeters float64
	AccessRadiusMeters   float64
	MaxAccessStops       int

	RoutingDefaultsPath string
	LogLevel            string
	MetricsEnabled      bool
	Verbose             bool
}

// Load reads the configuration from command-line arguments. A .env file in the
// working directory is loaded first if present; RAPTOR_ environment variables
// then replace the defaults of flags not given on the command line.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	flags := flag.NewFlagSet("raptor", flag.ContinueOnError)
	cfg, apiKeys, exemptKeys, env := registerFlags(flags)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := applyEnv(flags, EnvPrefix); err != nil {
		return Config{}, err
	}

	cfg.Env = EnvFlagToEnvironment(*env)
	cfg.ApiKeys = splitList(*apiKeys)
	cfg.RateLimitExemptKeys = splitList(*exemptKeys)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return *cfg, nil
}

func registerFlags(flags *flag.FlagSet) (cfg *Config, apiKeys, exemptKeys, env *string) {
	cfg = &Config{}
	flags.IntVar(&cfg.Port, "port", 4000, "API server port")
	env = flags.String("env", "development", "Environment (development|test|production)")
	apiKeys = flags.String("api-keys", "", "Comma Separated API Keys; empty disables the key check")
	flags.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second allowed per API key; negative disables the limit")
	exemptKeys = flags.String("rate-limit-exempt-keys", "", "Comma Separated API Keys that are never rate limited")

	flags.StringVar(&cfg.GtfsURL, "gtfs-url", "https://www.soundtransit.org/GTFS-rail/40_gtfs.zip", "Path or URL of a static GTFS zip file")
	flags.StringVar(&cfg.GtfsAuthHeaderKey, "gtfs-auth-header-key", "", "Header name sent when downloading the GTFS feed")
	flags.StringVar(&cfg.GtfsAuthHeaderValue, "gtfs-auth-header-value", "", "Header value sent when downloading the GTFS feed")
	flags.StringVar(&cfg.ServiceDate, "service-date", "", "Service date YYYY-MM-DD (default today)")
	flags.Float64Var(&cfg.WalkSpeed, "walk-speed", 1.33, "Walk speed in meters per second")
	flags.Float64Var(&cfg.TransferRadiusMeters, "transfer-radius", 400, "Maximum straight-line length of generated transfers, in meters")
	flags.Float64Var(&cfg.AccessRadiusMeters, "access-radius", 800, "Maximum walk to or from a stop for coordinate searches, in meters")
	flags.IntVar(&cfg.MaxAccessStops, "max-access-stops", 10, "Maximum number of stops used for coordinate searches")

	flags.StringVar(&cfg.RoutingDefaultsPath, "routing-defaults", "", "YAML file with routing defaults")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", true, "Expose Prometheus metrics on /metrics")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Log GTFS reloads")
	return cfg, apiKeys, exemptKeys, env
}

// applyEnv sets every flag not given on the command line from its environment
// variable, if present.
func applyEnv(flags *flag.FlagSet, prefix string) error {
	explicit := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	var errs []error
	flags.VisitAll(func(f *flag.Flag) {
		if explicit[f.Name] {
			return
		}
		name := prefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid value %q for %s: %w", value, name, err))
		}
	})
	return errors.Join(errs...)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks the settings that flag parsing cannot.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.Port))
	}
	if cfg.GtfsURL == "" {
		errs = append(errs, errors.New("gtfs-url is required"))
	}
	if _, err := cfg.serviceDate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.WalkSpeed <= 0 {
		errs = append(errs, errors.New("walk-speed must be positive"))
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (cfg Config) serviceDate() (time.Time, error) {
	if cfg.ServiceDate == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", cfg.ServiceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid service-date %q, use YYYY-MM-DD", cfg.ServiceDate)
	}
	return date, nil
}

// GtfsConfig returns the settings of the GTFS loader.
func (cfg Config) GtfsConfig() (gtfs.Config, error) {
	date, err := cfg.serviceDate()
	if err != nil {
		return gtfs.Config{}, err
	}
	return gtfs.Config{
		GtfsURL:              cfg.GtfsURL,
		AuthHeaderKey:        cfg.GtfsAuthHeaderKey,
		AuthHeaderValue:      cfg.GtfsAuthHeaderValue,
		ServiceDate:          date,
		WalkSpeed:            cfg.WalkSpeed,
		TransferRadiusMeters: cfg.TransferRadiusMeters,
		AccessRadiusMeters:   cfg.AccessRadiusMeters,
		MaxAccessStops:       cfg.MaxAccessStops,
		Verbose:              cfg.Verbose,
	}, nil
}

// Level returns the configured log level; Validate has already rejected bad names.
func (cfg Config) Level() slog.Level {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return level
}
