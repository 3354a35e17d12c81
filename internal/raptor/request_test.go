package raptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	params := NewSearchParams()
	params.EarliestDepartureTime = 0
	params.LatestArrivalTime = 1800
	params.AccessPaths = []Transfer{{Stop: 1, DurationInSeconds: 60}}
	params.EgressPaths = []Transfer{{Stop: 2, DurationInSeconds: 60}}
	return Request{SearchParams: params, CostFactors: DefaultCostFactors()}
}

func TestRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		request := validRequest()
		assert.NoError(t, request.Validate())
	})

	t.Run("missing access and egress", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.AccessPaths = nil
		request.SearchParams.EgressPaths = []Transfer{}

		err := request.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRequest))

		var validationErrs ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		fieldErrors := validationErrs.FieldErrors()
		assert.Equal(t, []string{"is required"}, fieldErrors["SearchParams.AccessPaths"])
		assert.Equal(t, []string{"must contain at least 1 item(s)"}, fieldErrors["SearchParams.EgressPaths"])
	})

	t.Run("missing time bounds", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.EarliestDepartureTime = NotSet
		request.SearchParams.LatestArrivalTime = NotSet

		err := request.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SearchParams.EarliestDepartureTime or SearchParams.LatestArrivalTime is required")
	})

	t.Run("negative values", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.MaxNumberOfTransfers = -1
		request.SearchParams.AccessPaths[0].DurationInSeconds = -60
		request.CostFactors.WalkReluctance = -1

		err := request.Validate()
		var validationErrs ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		fieldErrors := validationErrs.FieldErrors()
		assert.Contains(t, fieldErrors, "SearchParams.MaxNumberOfTransfers")
		assert.Contains(t, fieldErrors, "SearchParams.AccessPaths[0].DurationInSeconds")
		assert.Contains(t, fieldErrors, "CostFactors.WalkReluctance")
	})

	t.Run("latest arrival before earliest departure", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.LatestArrivalTime = -10

		err := request.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be before SearchParams.EarliestDepartureTime")
	})

	t.Run("forward search with only a latest arrival needs a window", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.EarliestDepartureTime = NotSet

		err := request.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SearchParams.SearchWindowInSeconds")

		request.SearchParams.SearchWindowInSeconds = 600
		assert.NoError(t, request.Validate())
	})
}

func TestEffectiveSearchParams(t *testing.T) {
	t.Run("window from both bounds", func(t *testing.T) {
		request := validRequest()
		params := request.effectiveSearchParams()
		assert.Equal(t, 1800, params.SearchWindowInSeconds)
	})

	t.Run("forward derives the earliest departure", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.EarliestDepartureTime = NotSet
		request.SearchParams.SearchWindowInSeconds = 600

		params := request.effectiveSearchParams()
		assert.Equal(t, 1200, params.EarliestDepartureTime)
		assert.Equal(t, 1800, params.LatestArrivalTime)
	})

	t.Run("reverse derives the latest arrival", func(t *testing.T) {
		request := validRequest()
		request.Direction = Reverse
		request.SearchParams.LatestArrivalTime = NotSet
		request.SearchParams.SearchWindowInSeconds = 600

		params := request.effectiveSearchParams()
		assert.Equal(t, 600, params.LatestArrivalTime)
		assert.Equal(t, 0, params.EarliestDepartureTime)
	})

	t.Run("an explicit window is kept", func(t *testing.T) {
		request := validRequest()
		request.SearchParams.SearchWindowInSeconds = 300
		assert.Equal(t, 300, request.effectiveSearchParams().SearchWindowInSeconds)
	})
}

func TestProfileAndDirectionNames(t *testing.T) {
	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "multi_criteria", MultiCriteria.String())
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "reverse", Reverse.String())
	assert.Equal(t, "BUS", Bus.String())
	assert.Equal(t, "UNKNOWN", TransitMode(99).String())
}

func TestParseTransitMode(t *testing.T) {
	mode, ok := ParseTransitMode("rail")
	assert.True(t, ok)
	assert.Equal(t, Rail, mode)

	mode, ok = ParseTransitMode("CABLE_CAR")
	assert.True(t, ok)
	assert.Equal(t, CableCar, mode)

	_, ok = ParseTransitMode("hovercraft")
	assert.False(t, ok)
}
