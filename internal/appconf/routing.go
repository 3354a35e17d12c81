package appconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"raptor.onebusaway.org/internal/raptor"
)

// ModeSlack overrides board and alight slack for one transit mode.
type ModeSlack struct {
	Board  int `yaml:"board" validate:"gte=0"`
	Alight int `yaml:"alight" validate:"gte=0"`
}

// RoutingDefaults are the search settings used when a plan request does not
// give its own. Durations are in seconds.
type RoutingDefaults struct {
	Profile             string `yaml:"profile" validate:"oneof=standard multi"`
	SearchWindowMinutes int    `yaml:"searchWindowMinutes" validate:"gte=0,lte=1440"`
	MaxTransfers        int    `yaml:"maxTransfers" validate:"gte=0"`

	BoardCost      int     `yaml:"boardCost" validate:"gte=0"`
	WalkReluctance float64 `yaml:"walkReluctance" validate:"gte=0"`
	WaitReluctance float64 `yaml:"waitReluctance" validate:"gte=0"`

	TransferSlack int                  `yaml:"transferSlack" validate:"gte=0"`
	BoardSlack    int                  `yaml:"boardSlack" validate:"gte=0"`
	AlightSlack   int                  `yaml:"alightSlack" validate:"gte=0"`
	ModeSlack     map[string]ModeSlack `yaml:"modeSlack" validate:"dive"`

	PruneAgainstDestination bool `yaml:"pruneAgainstDestination"`
}

// DefaultRoutingDefaults is used when no routing defaults file is configured.
func DefaultRoutingDefaults() RoutingDefaults {
	factors := raptor.DefaultCostFactors()
	return RoutingDefaults{
		Profile:             "multi",
		SearchWindowMinutes: 60,
		MaxTransfers:        raptor.DefaultMaxNumberOfTransfers,
		BoardCost:           factors.BoardCost,
		WalkReluctance:      factors.WalkReluctance,
		WaitReluctance:      factors.WaitReluctance,
		TransferSlack:       120,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadRoutingDefaults reads a YAML routing defaults file. Settings missing from
// the file keep their default; an empty path returns the defaults.
func LoadRoutingDefaults(path string) (RoutingDefaults, error) {
	if path == "" {
		return DefaultRoutingDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RoutingDefaults{}, fmt.Errorf("reading routing defaults: %w", err)
	}
	defaults, err := ParseRoutingDefaults(data)
	if err != nil {
		return RoutingDefaults{}, fmt.Errorf("%s: %w", path, err)
	}
	return defaults, nil
}

// ParseRoutingDefaults decodes and validates routing defaults. Unknown keys are
// rejected.
func ParseRoutingDefaults(data []byte) (RoutingDefaults, error) {
	defaults := DefaultRoutingDefaults()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&defaults); err != nil && !errors.Is(err, io.EOF) {
		return RoutingDefaults{}, fmt.Errorf("parsing routing defaults: %w", err)
	}

	if err := defaults.Validate(); err != nil {
		return RoutingDefaults{}, err
	}
	return defaults, nil
}

// Validate checks field ranges and mode names.
func (d RoutingDefaults) Validate() error {
	var errs []error
	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating routing defaults: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Errorf("routing defaults: %s fails %q", fe.Namespace(), tagWithParam(fe)))
		}
	}

	modes := make([]string, 0, len(d.ModeSlack))
	for mode := range d.ModeSlack {
		modes = append(modes, mode)
	}
	slices.Sort(modes)
	for _, mode := range modes {
		if _, ok := raptor.ParseTransitMode(mode); !ok {
			errs = append(errs, fmt.Errorf("routing defaults: unknown transit mode %q in modeSlack", mode))
		}
	}
	return errors.Join(errs...)
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// SearchProfile maps the profile name to a search profile.
func (d RoutingDefaults) SearchProfile() raptor.Profile {
	return ParseProfile(d.Profile)
}

// ParseProfile maps "multi" to the multi-criteria profile and anything else to standard.
func ParseProfile(name string) raptor.Profile {
	if strings.EqualFold(name, "multi") {
		return raptor.MultiCriteria
	}
	return raptor.Standard
}

func (d RoutingDefaults) CostFactors() raptor.CostFactors {
	return raptor.CostFactors{
		BoardCost:      d.BoardCost,
		WalkReluctance: d.WalkReluctance,
		WaitReluctance: d.WaitReluctance,
	}
}

// SlackProvider builds the slack configuration, applying the per-mode overrides.
func (d RoutingDefaults) SlackProvider() raptor.SlackProvider {
	provider := raptor.NewSlackProvider(d.TransferSlack, d.BoardSlack, d.AlightSlack)
	for name, slack := range d.ModeSlack {
		if mode, ok := raptor.ParseTransitMode(name); ok {
			provider = provider.WithModeSlack(mode, slack.Board, slack.Alight)
		}
	}
	return provider
}

func (d RoutingDefaults) Optimizations() raptor.Optimizations {
	return raptor.Optimizations{PruneAgainstDestination: d.PruneAgainstDestination}
}
