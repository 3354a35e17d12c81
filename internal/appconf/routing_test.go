package appconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"raptor.onebusaway.org/internal/raptor"
)

func TestLoadRoutingDefaults(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		defaults, err := LoadRoutingDefaults("")
		require.NoError(t, err)
		assert.Equal(t, DefaultRoutingDefaults(), defaults)
		assert.Equal(t, raptor.MultiCriteria, defaults.SearchProfile())
		assert.Equal(t, raptor.DefaultCostFactors(), defaults.CostFactors())
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
profile: standard
searchWindowMinutes: 30
maxTransfers: 3
boardCost: 300
walkReluctance: 2.5
transferSlack: 60
boardSlack: 10
alightSlack: 20
modeSlack:
  rail:
    board: 30
    alight: 40
pruneAgainstDestination: true
`), 0o600))

		defaults, err := LoadRoutingDefaults(path)
		require.NoError(t, err)

		assert.Equal(t, raptor.Standard, defaults.SearchProfile())
		assert.Equal(t, 30, defaults.SearchWindowMinutes)
		assert.Equal(t, 3, defaults.MaxTransfers)
		assert.Equal(t, raptor.CostFactors{BoardCost: 300, WalkReluctance: 2.5, WaitReluctance: 1.0}, defaults.CostFactors())
		assert.True(t, defaults.Optimizations().PruneAgainstDestination)

		slack := defaults.SlackProvider()
		assert.Equal(t, 60, slack.TransferSlack())
		assert.Equal(t, 10, slack.BoardSlack(raptor.Bus))
		assert.Equal(t, 20, slack.AlightSlack(raptor.Bus))
		assert.Equal(t, 30, slack.BoardSlack(raptor.Rail))
		assert.Equal(t, 40, slack.AlightSlack(raptor.Rail))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRoutingDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading routing defaults")
	})
}

func TestParseRoutingDefaults(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{
			name: "empty document keeps defaults",
			yaml: "",
		},
		{
			name:   "unknown profile",
			yaml:   "profile: fastest",
			errMsg: `RoutingDefaults.Profile fails "oneof=standard multi"`,
		},
		{
			name:   "negative board cost",
			yaml:   "boardCost: -1",
			errMsg: `RoutingDefaults.BoardCost fails "gte=0"`,
		},
		{
			name:   "window longer than a day",
			yaml:   "searchWindowMinutes: 2000",
			errMsg: `RoutingDefaults.SearchWindowMinutes fails "lte=1440"`,
		},
		{
			name:   "negative mode slack",
			yaml:   "modeSlack: {bus: {board: -5}}",
			errMsg: `fails "gte=0"`,
		},
		{
			name:   "unknown mode",
			yaml:   "modeSlack: {hovercraft: {board: 5}}",
			errMsg: `unknown transit mode "hovercraft"`,
		},
		{
			name:   "unknown key",
			yaml:   "walkSpeed: 2",
			errMsg: "field walkSpeed not found",
		},
		{
			name:   "malformed yaml",
			yaml:   "profile: [standard",
			errMsg: "parsing routing defaults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaults, err := ParseRoutingDefaults([]byte(tt.yaml))
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, DefaultRoutingDefaults(), defaults)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseProfile(t *testing.T) {
	assert.Equal(t, raptor.MultiCriteria, ParseProfile("multi"))
	assert.Equal(t, raptor.MultiCriteria, ParseProfile("MULTI"))
	assert.Equal(t, raptor.Standard, ParseProfile("standard"))
	assert.Equal(t, raptor.Standard, ParseProfile(""))
}
