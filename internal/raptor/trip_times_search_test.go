package raptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTripTimesAfter(t *testing.T) {
	loop := &testPattern{name: "L1", stops: []int{1, 2, 3, 2, 4}}
	trip := newTestTrip(loop, 100, 200, 300, 400, 500)

	t.Run("simple leg", func(t *testing.T) {
		times, err := FindTripTimesAfter(trip, 2, 4, 0)
		require.NoError(t, err)
		assert.Equal(t, TripTimes{BoardStop: 2, BoardTime: 200, AlightStop: 4, AlightTime: 500}, times)
	})

	t.Run("board and alight at the same stop of a loop", func(t *testing.T) {
		times, err := FindTripTimesAfter(trip, 2, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 200, times.BoardTime)
		assert.Equal(t, 400, times.AlightTime)
	})

	t.Run("the bound skips the first visit", func(t *testing.T) {
		times, err := FindTripTimesAfter(trip, 2, 4, 250)
		require.NoError(t, err)
		assert.Equal(t, 400, times.BoardTime)
		assert.Equal(t, 500, times.AlightTime)
	})

	t.Run("alight stop not found", func(t *testing.T) {
		_, err := FindTripTimesAfter(trip, 3, 1, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInternal))
		assert.EqualError(t, err,
			"trip not found: alight stop not found [from stop: 3, to stop: 1, earliest departure: 00:00:00, pattern: BUS L1]")
	})

	t.Run("no departure after the bound", func(t *testing.T) {
		_, err := FindTripTimesAfter(trip, 1, 2, 600)
		var notFound *TripNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "no departure after the bound", notFound.Hint)
		assert.Equal(t, 600, notFound.BoundTime)
	})

	t.Run("board stop not found", func(t *testing.T) {
		_, err := FindTripTimesAfter(trip, 1, 4, 150)
		var notFound *TripNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "board stop not found", notFound.Hint)
	})
}

func TestFindTripTimesBefore(t *testing.T) {
	loop := &testPattern{name: "L1", stops: []int{1, 2, 3, 2, 4}}
	trip := newTestTrip(loop, 100, 200, 300, 400, 500)

	t.Run("board and alight at the same stop of a loop", func(t *testing.T) {
		times, err := FindTripTimesBefore(trip, 2, 2, 500)
		require.NoError(t, err)
		assert.Equal(t, TripTimes{BoardStop: 2, BoardTime: 200, AlightStop: 2, AlightTime: 400}, times)
	})

	t.Run("the bound skips the last visit", func(t *testing.T) {
		times, err := FindTripTimesBefore(trip, 1, 2, 350)
		require.NoError(t, err)
		assert.Equal(t, 100, times.BoardTime)
		assert.Equal(t, 200, times.AlightTime)
	})

	t.Run("no arrival before the bound", func(t *testing.T) {
		_, err := FindTripTimesBefore(trip, 1, 2, 50)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInternal)
		assert.Contains(t, err.Error(), "no arrival before the bound")
		assert.Contains(t, err.Error(), "latest arrival: 00:00:50")
	})

	t.Run("board stop not found", func(t *testing.T) {
		_, err := FindTripTimesBefore(trip, 4, 2, 500)
		var notFound *TripNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "board stop not found", notFound.Hint)
	})
}
