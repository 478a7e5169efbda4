// Package main provides the entrypoint for the nodewatch dashboard server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nodewatch/nodewatch/internal/api"
	"github.com/nodewatch/nodewatch/internal/api/middleware"
	"github.com/nodewatch/nodewatch/internal/config"
	"github.com/nodewatch/nodewatch/internal/feed"
	"github.com/nodewatch/nodewatch/internal/feed/thingspeak"
	"github.com/nodewatch/nodewatch/internal/node"
	"github.com/nodewatch/nodewatch/internal/provider/resilience"
	"github.com/nodewatch/nodewatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "nodewatch-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.LogLevel)

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Environment).
		Msg("starting nodewatch API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Load node registry
	nodeList := node.DefaultNodes()
	if cfg.NodesFile != "" {
		nodeList, err = node.LoadFile(cfg.NodesFile)
		if err != nil {
			log.Error().Err(err).Str("file", cfg.NodesFile).Msg("failed to load nodes")
			os.Exit(1)
		}
	}
	nodes := node.NewRegistry(nodeList)
	log.Info().Int("nodes", nodes.Len()).Msg("node registry loaded")

	// Initialize ThingSpeak provider
	clientCfg := resilience.DefaultClientConfig(thingspeak.ProviderName)
	clientCfg.Timeout = cfg.ThingSpeakTimeout
	clientCfg.CircuitBreaker.OnStateChange = resilience.LogStateChanges(log)
	httpClient := resilience.NewClient(clientCfg)

	health := resilience.NewRegistry()
	health.Register(thingspeak.ProviderName, httpClient)

	feedService := feed.NewService(feed.ServiceConfig{
		Provider: thingspeak.NewClient(thingspeak.ClientConfig{
			BaseURL:    cfg.ThingSpeakBaseURL,
			HTTPClient: httpClient,
			Logger:     log,
		}),
		Logger:  log,
		Health:  health,
		Metrics: providerMetrics,
	})
	log.Info().
		Str("base_url", cfg.ThingSpeakBaseURL).
		Dur("timeout", cfg.ThingSpeakTimeout).
		Msg("feed service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Title:       cfg.DashboardTitle,
		Metrics:     metrics,
		FeedService: feedService,
		Nodes:       nodes,
		Health:      health,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
