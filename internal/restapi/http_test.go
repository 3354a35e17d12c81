package restapi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"raptor.onebusaway.org/internal/app"
	"raptor.onebusaway.org/internal/appconf"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/gtfs/gtfstest"
	"raptor.onebusaway.org/internal/logging"
	"raptor.onebusaway.org/internal/metrics"
	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/transit"
	"raptor.onebusaway.org/internal/utils"
)

// testRoutingDefaults searches a single departure without slack, so expected
// itineraries can be read off the sample timetable.
func testRoutingDefaults() appconf.RoutingDefaults {
	defaults := appconf.DefaultRoutingDefaults()
	defaults.Profile = "standard"
	defaults.SearchWindowMinutes = 0
	defaults.TransferSlack = 0
	return defaults
}

// createTestApi creates a RestAPI over the sample feed on a Monday.
func createTestApi(t *testing.T, configure ...func(*app.Application)) *RestAPI {
	t.Helper()

	gtfsConfig := gtfs.Config{
		GtfsURL:     gtfstest.WriteZip(t, gtfstest.SampleFeed),
		ServiceDate: gtfstest.Monday,
	}
	gtfsManager, err := gtfs.InitGTFSManager(t.Context(), gtfsConfig)
	require.NoError(t, err)
	t.Cleanup(gtfsManager.Shutdown)

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			RateLimit: 100,
		},
		GtfsConfig:      gtfsConfig,
		RoutingDefaults: testRoutingDefaults(),
		Logger:          logger,
		GtfsManager:     gtfsManager,
	}
	for _, fn := range configure {
		fn(application)
	}
	if application.Router == nil {
		var observer raptor.SearchObserver
		if application.Metrics != nil {
			observer = application.Metrics
		}
		application.Router = raptor.NewService[*transit.Trip](logger, observer)
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

func withAPIKeys(keys ...string) func(*app.Application) {
	return func(a *app.Application) { a.Config.ApiKeys = keys }
}

func withMetrics(a *app.Application) {
	a.Metrics = metrics.NewCollector()
}

// serveRequest runs a request through the complete handler chain.
func serveRequest(t *testing.T, api *RestAPI, req *http.Request) *http.Response {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	req.URL.Scheme, req.URL.Host, req.RequestURI = "http", server.Listener.Addr().String(), ""
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, endpoint, nil))

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

func TestCurrentTimeHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/current-time.json")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, 2, model.Version)
	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.InDelta(t, float64(models.ResponseCurrentTime()), entry["time"], 5000)

	network := api.GtfsManager.Network()
	now := time.UnixMilli(int64(entry["time"].(float64)))
	assert.Equal(t, "2025-07-07", entry["serviceDate"])
	assert.Equal(t, "America/Los_Angeles", entry["timeZone"])
	assert.Equal(t, utils.FormatClock(network.SecondsAt(now)), entry["serviceTime"])
	assert.Equal(t, now.In(network.Location).Format(time.RFC3339), entry["readableTime"])
}

func TestHealthHandler(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		api := createTestApi(t, withAPIKeys("TEST"))

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/healthz")

		assert.Equal(t, http.StatusOK, resp.StatusCode, "health is not behind the API key check")
		data := model.Data.(map[string]interface{})
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "2025-07-07", data["serviceDate"])
		assert.Equal(t, 3.0, data["patterns"])
	})

	t.Run("no timetable", func(t *testing.T) {
		api := NewRestAPI(&app.Application{
			Config: appconf.Config{RateLimit: 100},
			Logger: logging.NewStructuredLogger(io.Discard, slog.LevelInfo),
		})
		t.Cleanup(api.Shutdown)

		resp, model := serveApiAndRetrieveEndpoint(t, api, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "timetable not loaded", model.Text)
	})
}

func TestStopHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stops/C.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, "C", entry["id"])
	assert.Equal(t, "Cedar St", entry["name"])
	assert.Equal(t, "102", entry["code"])

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/stops/Z.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 404, model.Code)
}

func TestNotFound(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/agency/MT.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)
}

func TestAPIKeyCheck(t *testing.T) {
	api := createTestApi(t, withAPIKeys("TEST"))

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/current-time.json")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "permission denied", model.Text)
	assert.Equal(t, 1, model.Version)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, "/api/current-time.json?key=WRONG")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, "/api/current-time.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	api := createTestApi(t)

	resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/api/current-time.json", nil))
	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/current-time.json", nil)
	req.Header.Set(RequestIDHeader, incoming)
	resp = serveRequest(t, api, req)
	assert.Equal(t, incoming, resp.Header.Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/current-time.json", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp = serveRequest(t, api, req)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	handler := RequestIDMiddleware(NewRequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plan.json?fromStop=A", nil))

	output := buf.String()
	id := rec.Header().Get(RequestIDHeader)
	assert.Equal(t, 2, strings.Count(output, `"request_id":"`+id+`"`), "handler and request log lines carry the request id")
	assert.Contains(t, output, `"status":418`)
	assert.Contains(t, output, `"path":"/api/plan.json"`)
	assert.Contains(t, output, `"component":"http_server"`)
	assert.NotContains(t, output, "fromStop", "query strings are not logged")
}

func TestSecurityHeaders(t *testing.T) {
	api := createTestApi(t)

	req := httptest.NewRequest(http.MethodGet, "/api/current-time.json", nil)
	req.Header.Set("Origin", "https://example.com")
	resp := serveRequest(t, api, req)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Strict-Transport-Security"), "max-age=")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, RequestIDHeader, resp.Header.Get("Access-Control-Expose-Headers"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/plan.json", nil)
	preflight.Header.Set("Origin", "https://example.com")
	resp = serveRequest(t, api, preflight)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestCompressionMiddleware(t *testing.T) {
	large := strings.Repeat(`{"test": "data"}`, 1000)
	handler := CompressionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("small") != "" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(large))
	}))

	t.Run("large response is compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, large, string(body))
	})

	t.Run("small response is not compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?small=1", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, `{}`, rec.Body.String())
	})

	t.Run("client without gzip support", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, large, rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		api := createTestApi(t, withMetrics)
		api.Metrics.SetTimetable(api.GtfsManager.Network().Stats())

		resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/api/plan.json?fromStop=A&toStop=C&time=08:00", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Contains(t, string(body), `raptor_searches_total{direction="forward",outcome="found",profile="standard"} 1`)
		assert.Contains(t, string(body), "raptor_timetable_patterns 3")
	})

	t.Run("disabled", func(t *testing.T) {
		api := createTestApi(t)

		resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDebugUI(t *testing.T) {
	t.Run("mounted outside production", func(t *testing.T) {
		api := createTestApi(t)
		resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/debug/?dataType=stats", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	})

	t.Run("hidden in production", func(t *testing.T) {
		api := createTestApi(t, func(a *app.Application) { a.Config.Env = appconf.Production })
		resp := serveRequest(t, api, httptest.NewRequest(http.MethodGet, "/debug/", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
