// Command server runs the streaming-availability HTTP API.
//
// Startup order:
//  1. Load .env (best effort) and environment configuration
//  2. Configure global logging (level, pretty console in dev)
//  3. Initialize OpenTelemetry tracing (optional)
//  4. Build caches, quota tracker, and upstream gateways
//  5. Register routes and serve with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sushilbang/stream-where/internal/cache"
	"github.com/sushilbang/stream-where/internal/config"
	"github.com/sushilbang/stream-where/internal/domain"
	httpapi "github.com/sushilbang/stream-where/internal/http"
	"github.com/sushilbang/stream-where/internal/observability"
	"github.com/sushilbang/stream-where/internal/quota"
	"github.com/sushilbang/stream-where/internal/sysutil"
	"github.com/sushilbang/stream-where/internal/upstream"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Long-lived application state.
	searchCache := cache.New[[]domain.MovieSummary](cfg.CacheTTL)
	availCache := cache.New[domain.AvailabilityResult](cfg.CacheTTL)
	sweepStop := make(chan struct{})
	defer close(sweepStop)
	searchCache.StartSweeper(cfg.CacheSweepInterval, sweepStop)
	availCache.StartSweeper(cfg.CacheSweepInterval, sweepStop)

	tracker := quota.New()
	client := &http.Client{Timeout: cfg.UpstreamTimeout}

	backends := httpapi.Backends{
		Metadata: upstream.NewMetadataGateway(
			client, cfg.Metadata.BaseURL, cfg.Metadata.APIKey, searchCache, tracker),
		Availability: upstream.NewAvailabilityGateway(
			client, cfg.Availability.BaseURL, cfg.Availability.APIKey, cfg.Availability.Country, availCache, tracker),
		Quota:             tracker,
		SearchCache:       searchCache,
		AvailabilityCache: availCache,
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, backends, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("version", version).
			Str("addr", srv.Addr).
			Str("base_path", cfg.APIBasePath).
			Str("country", cfg.Availability.Country).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
	log.Info().Msg("server stopped")
}
