// Package main is the entry point for the quotify daemon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quotify-desktop/quotify/internal/adapters/clients"
	"github.com/quotify-desktop/quotify/internal/adapters/clients/acl"
	"github.com/quotify-desktop/quotify/internal/adapters/http"
	"github.com/quotify-desktop/quotify/internal/adapters/http/handlers"
	"github.com/quotify-desktop/quotify/internal/adapters/storage/filestore"
	"github.com/quotify-desktop/quotify/internal/adapters/storage/memory"
	"github.com/quotify-desktop/quotify/internal/adapters/storage/sqlite"
	"github.com/quotify-desktop/quotify/internal/app"
	"github.com/quotify-desktop/quotify/internal/platform/config"
	"github.com/quotify-desktop/quotify/internal/platform/connectivity"
	"github.com/quotify-desktop/quotify/internal/platform/logging"
	"github.com/quotify-desktop/quotify/internal/platform/telemetry"
	"github.com/quotify-desktop/quotify/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("QUOTIFY_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)
	slog.SetDefault(logger)

	logger.Info("starting quotify",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// Telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	// Storage: durable sqlite + file-backed cache, or in-memory for
	// ephemeral runs.
	records, keyValues, closeStorage, err := openStorage(cfg, healthRegistry, logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStorage()

	// HTTP client for the quote source
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// Quote source adapter (ACL pattern)
	quoteSource := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	if err := healthRegistry.Register(quoteSource); err != nil {
		return fmt.Errorf("registering quote source health check: %w", err)
	}

	conn := connectivity.New(cfg.Connectivity.StartOnline)

	// Cache engine (application layer)
	quoteCache := app.NewQuoteCache(app.QuoteCacheConfig{
		Source:       quoteSource,
		Records:      records,
		Cache:        app.NewNamespacedCache(keyValues),
		Connectivity: conn,
		Logger:       logger,
	})

	// Handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(handlers.QuoteHandlerConfig{
		Cache:               quoteCache,
		DefaultPreloadLimit: cfg.Cache.PreloadLimit,
		DefaultMaxAge:       cfg.Cache.MaxAge,
	})
	connectivityHandler := handlers.NewConnectivityHandler(conn)

	// HTTP server + router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		AppConfig:           &cfg.App,
		QuoteHandler:        quoteHandler,
		ConnectivityHandler: connectivityHandler,
		HealthHandler:       healthHandler,
		Timeout:             cfg.Server.RequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// openStorage opens the configured stores and registers their health
// checks. The returned closer is safe to call once.
func openStorage(
	cfg *config.Config,
	healthRegistry *ports.HealthRegistry,
	logger *slog.Logger,
) (ports.RecordStore, ports.KeyValueStore, func(), error) {
	if cfg.Storage.Ephemeral {
		logger.Warn("running with ephemeral storage, nothing will survive a restart")

		return memory.NewRecordStore(), memory.NewKeyValueStore(), func() {}, nil
	}

	records, err := sqlite.Open(cfg.Storage.RecordsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening record store: %w", err)
	}

	if err := healthRegistry.Register(records); err != nil {
		_ = records.Close()
		return nil, nil, nil, fmt.Errorf("registering sqlite health check: %w", err)
	}

	keyValues, err := filestore.Open(cfg.Storage.CachePath)
	if err != nil {
		_ = records.Close()
		return nil, nil, nil, fmt.Errorf("opening cache store: %w", err)
	}

	closer := func() {
		if closeErr := records.Close(); closeErr != nil {
			logger.Error("closing record store", slog.Any("error", closeErr))
		}
	}

	return records, keyValues, closer, nil
}

// waitForShutdown blocks until a shutdown signal is received or server
// error occurs, then drains the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
