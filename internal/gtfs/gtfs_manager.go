package gtfs

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"raptor.onebusaway.org/internal/logging"
)

// Manager owns the routable network built from a GTFS feed and, for URL
// sources, refreshes it in the background.
type Manager struct {
	gtfsSource  string
	isLocalFile bool
	config      Config
	logger      *slog.Logger

	mu          sync.RWMutex
	network     *Network
	lastUpdated time.Time
	listeners   []func(NetworkStats)

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitGTFSManager loads the feed and builds the network for the configured
// service date. The source can be either a URL or a local file path.
func InitGTFSManager(ctx context.Context, config Config) (*Manager, error) {
	config = config.withDefaults()
	isLocalFile := !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")

	manager := &Manager{
		gtfsSource:   config.GtfsURL,
		isLocalFile:  isLocalFile,
		config:       config,
		logger:       logging.FromContext(ctx).With(slog.String("component", "gtfs_manager")),
		shutdownChan: make(chan struct{}),
	}

	network, err := manager.load(ctx)
	if err != nil {
		return nil, err
	}
	manager.setNetwork(network)

	if !isLocalFile {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}

	return manager, nil
}

func (manager *Manager) load(ctx context.Context) (*Network, error) {
	staticData, err := loadGTFSData(ctx, manager.gtfsSource, manager.isLocalFile, manager.config.authHeaders())
	if err != nil {
		return nil, err
	}
	return BuildNetwork(staticData, manager.config)
}

func (manager *Manager) setNetwork(network *Network) {
	manager.mu.Lock()
	manager.network = network
	manager.lastUpdated = time.Now()
	listeners := manager.listeners
	manager.mu.Unlock()

	stats := network.Stats()
	for _, listener := range listeners {
		listener(stats)
	}

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "gtfs_network_updated",
			slog.String("source", manager.gtfsSource),
			slog.Int("patterns", stats.Patterns),
			slog.Int("trips", stats.Trips))
	}
}

// Network returns the current network. A returned network is never modified,
// so callers may keep using it while a refresh swaps in a new one.
func (manager *Manager) Network() *Network {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.network
}

func (manager *Manager) LastUpdated() time.Time {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.lastUpdated
}

// OnUpdate registers a listener for network swaps and calls it once with the
// current network.
func (manager *Manager) OnUpdate(listener func(NetworkStats)) {
	manager.mu.Lock()
	manager.listeners = append(manager.listeners, listener)
	network := manager.network
	manager.mu.Unlock()

	if network != nil {
		listener(network.Stats())
	}
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// LogStatistics logs the size of the current network.
func (manager *Manager) LogStatistics() {
	stats := manager.Network().Stats()
	lat, lon, latSpan, lonSpan := manager.Network().Bounds()
	logging.LogOperation(manager.logger, "gtfs_statistics",
		slog.String("source", manager.gtfsSource),
		slog.Bool("local_file", manager.isLocalFile),
		slog.Time("last_updated", manager.LastUpdated()),
		slog.String("service_date", stats.ServiceDate),
		slog.Int("stops", stats.Stops),
		slog.Int("patterns", stats.Patterns),
		slog.Int("trips", stats.Trips),
		slog.Int("transfers", stats.Transfers),
		slog.Int("skipped_trips", stats.SkippedTrips),
		slog.Float64("center_lat", lat),
		slog.Float64("center_lon", lon),
		slog.Float64("lat_span", latSpan),
		slog.Float64("lon_span", lonSpan))
}
