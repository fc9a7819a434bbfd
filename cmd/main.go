package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/aggregate"
	"github.com/UnknownOlympus/waypoint/internal/api"
	"github.com/UnknownOlympus/waypoint/internal/cache"
	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/optimizer"
	"github.com/UnknownOlympus/waypoint/internal/render"
	"github.com/UnknownOlympus/waypoint/internal/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Create optimizer provider using factory pattern based on configuration.
	providerConfig := optimizer.ProviderConfig{
		Type:       optimizer.ProviderType(cfg.Optimizer.ProviderType),
		BaseURL:    cfg.Optimizer.URL,
		APIKey:     cfg.Optimizer.APIKey,
		RateLimit:  cfg.Optimizer.RateLimit,
		Timeout:    cfg.Optimizer.Timeout,
		ResultFile: cfg.Optimizer.ResultFile,
		Logger:     logger,
	}

	provider, err := optimizer.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create optimizer provider: %v", err)
	}

	logger.InfoContext(ctx, "Optimizer provider initialized", "type", cfg.Optimizer.ProviderType)

	// Wrap the provider with the response cache when Redis is configured.
	var pinger api.Pinger
	if client := cache.Open(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); client != nil {
		defer client.Close()

		store := cache.NewRedisStore(client, cfg.Redis.TTL)
		if err = store.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Redis is not reachable, requests will bypass the cache", "error", err)
		}

		provider = optimizer.NewCachedProvider(provider, store, appMetrics, logger)
		pinger = store

		logger.InfoContext(ctx, "Optimizer cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	builder := render.NewBuilder(render.Options{
		Palette: cfg.Render.Palette,
		Padding: &cfg.Render.BoundsPadding,
		Rates: &aggregate.Rates{
			FuelPerKm:  cfg.Render.FuelRatePerKm,
			TotalPerKm: cfg.Render.TotalRatePerKm,
		},
	})

	session := view.NewSession(logger, provider, builder, appMetrics, cfg.Render.Currency)
	router := api.NewRouter(api.NewHandler(session, logger), reg, pinger, logger)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	serveErr := make(chan error, 1)
	server := newServer(router, cfg.Port, cfg.Optimizer.Timeout)
	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C) or the server to fail.
	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to shut down API server", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// newServer creates the HTTP server. Write timeout leaves room for one optimizer round trip.
func newServer(handler http.Handler, port int, optimizerTimeout time.Duration) *http.Server {
	const readTimeout = 5 * time.Second

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      optimizerTimeout + readTimeout,
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case envLocal:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true})
	case envDev:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case envProd:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime})
	}

	log := slog.New(handler).With(slog.String("service", "waypoint"))
	if env != envLocal && env != envDev && env != envProd {
		log.Error("Unknown WAYPOINT_ENV, only errors will be logged",
			slog.String("env", env),
			slog.String("accepted", strings.Join([]string{envLocal, envDev, envProd}, ", ")))
	}

	return log
}

// dropTime removes the record timestamp.
func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
