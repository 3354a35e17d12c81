package gtfs

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"raptor.onebusaway.org/internal/gtfs/gtfstest"
	"raptor.onebusaway.org/internal/logging"
)

func TestInitGTFSManager(t *testing.T) {
	t.Run("from local file", func(t *testing.T) {
		manager, err := InitGTFSManager(context.Background(), Config{
			GtfsURL:     gtfstest.WriteZip(t, gtfstest.SampleFeed),
			ServiceDate: gtfstest.Monday,
		})
		require.NoError(t, err)
		defer manager.Shutdown()

		assert.True(t, manager.isLocalFile)
		assert.Equal(t, 3, manager.Network().Stats().Patterns)
		assert.False(t, manager.LastUpdated().IsZero())
	})

	t.Run("from URL with auth header", func(t *testing.T) {
		feed := gtfstest.Zip(t, gtfstest.SampleFeed)
		keys := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case keys <- r.Header.Get("X-Api-Key"):
			default:
			}
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write(feed)
		}))
		defer server.Close()

		manager, err := InitGTFSManager(context.Background(), Config{
			GtfsURL:         server.URL + "/gtfs.zip",
			AuthHeaderKey:   "X-Api-Key",
			AuthHeaderValue: "secret",
			ServiceDate:     gtfstest.Monday,
		})
		require.NoError(t, err)
		defer manager.Shutdown()

		assert.False(t, manager.isLocalFile)
		assert.Equal(t, "secret", <-keys)
		assert.Equal(t, 5, manager.Network().Stats().Trips)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := InitGTFSManager(context.Background(), Config{GtfsURL: "/does/not/exist.zip"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading local GTFS file")
	})

	t.Run("download failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := InitGTFSManager(context.Background(), Config{GtfsURL: server.URL})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404 Not Found")
	})

	t.Run("invalid feed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gtfs.zip")
		require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o600))

		_, err := InitGTFSManager(context.Background(), Config{GtfsURL: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing GTFS data")
	})
}

func TestManagerRefresh(t *testing.T) {
	feed := gtfstest.Zip(t, gtfstest.SampleFeed)
	var (
		mu       sync.Mutex
		requests int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		_, _ = w.Write(feed)
	}))
	defer server.Close()

	manager, err := InitGTFSManager(context.Background(), Config{
		GtfsURL:         server.URL,
		ServiceDate:     gtfstest.Monday,
		RefreshInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	first := manager.Network()

	updates := make(chan NetworkStats, 16)
	manager.OnUpdate(func(stats NetworkStats) {
		select {
		case updates <- stats:
		default:
		}
	})

	// The first call reports the current network.
	stats := <-updates
	assert.Equal(t, 3, stats.Patterns)

	select {
	case stats = <-updates:
		assert.Equal(t, 5, stats.Trips)
	case <-time.After(5 * time.Second):
		t.Fatal("network was not refreshed")
	}
	manager.Shutdown()

	assert.NotSame(t, first, manager.Network())
	mu.Lock()
	assert.GreaterOrEqual(t, requests, 2)
	mu.Unlock()
}

func TestManagerShutdown(t *testing.T) {
	feed := gtfstest.Zip(t, gtfstest.SampleFeed)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(feed)
	}))
	defer server.Close()

	manager, err := InitGTFSManager(context.Background(), Config{GtfsURL: server.URL, ServiceDate: gtfstest.Monday})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		manager.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown took too long")
	}

	// Call shutdown again - should not panic or hang
	manager.Shutdown()
}

func TestConcurrentNetworkAccess(t *testing.T) {
	static := sampleStatic(t)
	weekday, err := BuildNetwork(static, Config{ServiceDate: gtfstest.Monday})
	require.NoError(t, err)
	holiday, err := BuildNetwork(static, Config{ServiceDate: gtfstest.Holiday})
	require.NoError(t, err)

	manager := &Manager{config: Config{}.withDefaults(), logger: slog.Default(), shutdownChan: make(chan struct{})}
	manager.setNetwork(weekday)

	var wg sync.WaitGroup
	done := make(chan struct{})
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					network := manager.Network()
					trips := network.Stats().Trips
					assert.True(t, trips == 5 || trips == 1)
				}
			}
		}()
	}

	for i := range 50 {
		if i%2 == 0 {
			manager.setNetwork(holiday)
		} else {
			manager.setNetwork(weekday)
		}
	}
	close(done)
	wg.Wait()
}

func TestLogStatistics(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewStructuredLogger(&buf, slog.LevelInfo))

	manager, err := InitGTFSManager(ctx, Config{
		GtfsURL:     gtfstest.WriteZip(t, gtfstest.SampleFeed),
		ServiceDate: gtfstest.Monday,
	})
	require.NoError(t, err)
	defer manager.Shutdown()

	manager.LogStatistics()

	output := buf.String()
	assert.Contains(t, output, `"msg":"gtfs_statistics"`)
	assert.Contains(t, output, `"component":"gtfs_manager"`)
	assert.Contains(t, output, `"patterns":3`)
	assert.Contains(t, output, `"service_date":"2025-07-07"`)
}
