package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stopsForLocationResponse struct {
	Code int `json:"code"`
	Data struct {
		LimitExceeded bool `json:"limitExceeded"`
		List          []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Distance float64 `json:"distance"`
		} `json:"list"`
	} `json:"data"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func getStopsForLocation(t *testing.T, api *RestAPI, query string) (*http.Response, stopsForLocationResponse) {
	t.Helper()

	resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/api/stops-for-location.json?"+query, nil))

	var body stopsForLocationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestStopsForLocationHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("nearest first", func(t *testing.T) {
		resp, body := getStopsForLocation(t, api, "lat=47.6&lon=-122.33&radius=200")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, body.Data.List, 2)
		assert.Equal(t, "A", body.Data.List[0].ID)
		assert.Equal(t, "Alder St", body.Data.List[0].Name)
		assert.Equal(t, "B", body.Data.List[1].ID)
		assert.InDelta(t, 111.2, body.Data.List[1].Distance, 0.5)
		assert.False(t, body.Data.LimitExceeded)
	})

	t.Run("limit exceeded", func(t *testing.T) {
		resp, body := getStopsForLocation(t, api, "lat=47.6&lon=-122.33&radius=200&maxCount=1")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, body.Data.List, 1)
		assert.Equal(t, "A", body.Data.List[0].ID)
		assert.True(t, body.Data.LimitExceeded)
	})

	t.Run("nothing in range", func(t *testing.T) {
		resp, body := getStopsForLocation(t, api, "lat=47.7&lon=-122.33")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body.Data.List)
	})
}

func TestStopsForLocationValidation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing lat", "lon=-122.33", "lat"},
		{"missing lon", "lat=47.6", "lon"},
		{"bad lat", "lat=north&lon=-122.33", "lat"},
		{"lat out of range", "lat=91&lon=-122.33", "lat"},
		{"radius too large", "lat=47.6&lon=-122.33&radius=50000", "radius"},
		{"negative radius", "lat=47.6&lon=-122.33&radius=-5", "radius"},
		{"zero maxCount", "lat=47.6&lon=-122.33&maxCount=0", "maxCount"},
		{"maxCount too large", "lat=47.6&lon=-122.33&maxCount=1000", "maxCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := getStopsForLocation(t, api, tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body.FieldErrors[tt.field], "errors: %v", body.FieldErrors)
		})
	}
}
