package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raptor.onebusaway.org/internal/app"
	"raptor.onebusaway.org/internal/appconf"
	"raptor.onebusaway.org/internal/gtfs"
	"raptor.onebusaway.org/internal/logging"
	"raptor.onebusaway.org/internal/metrics"
	"raptor.onebusaway.org/internal/raptor"
	"raptor.onebusaway.org/internal/restapi"
	"raptor.onebusaway.org/internal/transit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the configuration and the timetable, then serves the API until ctx
// is cancelled.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := appconf.Load(args)
	if err != nil {
		return err
	}

	logger := logging.NewStructuredLogger(stdout, cfg.Level())
	ctx = logging.WithLogger(ctx, logger)

	application, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.GtfsManager.Shutdown()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", cfg.Port, err)
	}
	return serve(ctx, application, listener)
}

// newApplication wires the timetable, the routing service and the metrics
// collector together.
func newApplication(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, error) {
	gtfsConfig, err := cfg.GtfsConfig()
	if err != nil {
		return nil, err
	}
	routingDefaults, err := appconf.LoadRoutingDefaults(cfg.RoutingDefaultsPath)
	if err != nil {
		return nil, err
	}

	gtfsManager, err := gtfs.InitGTFSManager(ctx, gtfsConfig)
	if err != nil {
		return nil, fmt.Errorf("initializing GTFS manager: %w", err)
	}
	gtfsManager.LogStatistics()

	application := &app.Application{
		Config:          cfg,
		GtfsConfig:      gtfsConfig,
		RoutingDefaults: routingDefaults,
		Logger:          logger,
		GtfsManager:     gtfsManager,
	}

	// A nil *Collector must not reach the service as a non-nil interface.
	var observer raptor.SearchObserver
	if cfg.MetricsEnabled {
		application.Metrics = metrics.NewCollector()
		gtfsManager.OnUpdate(application.Metrics.SetTimetable)
		observer = application.Metrics
	}
	application.Router = raptor.NewService[*transit.Trip](logger, observer)

	return application, nil
}

// serve runs the HTTP server on listener and shuts it down gracefully once ctx
// is done.
func serve(ctx context.Context, application *app.Application, listener net.Listener) error {
	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	logger := application.Logger
	srv := &http.Server{
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_started",
			slog.String("addr", listener.Addr().String()),
			slog.String("env", application.Config.Env.String()))
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logging.LogOperation(logger, "server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logging.LogOperation(logger, "server_stopped")
	return nil
}
