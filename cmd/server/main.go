package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/bootstrap"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/logger"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/scheduler"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logr := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(logr)
	logr.Info().Str("version", version.Version).Str("source", cfg.DataSource.Kind).Msg("Starting portfolio dashboard")

	// Open the data source
	source, closeSource, err := bootstrap.OpenSource(cfg, logr)
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to open data source")
	}
	defer func() {
		if err := closeSource(); err != nil {
			logr.Error().Err(err).Msg("Failed to close data source")
		}
	}()

	m := metrics.NewRegistry()

	confirmer, err := service.NewConfirmer(cfg.Delete.Key, cfg.Delete.TTL)
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to create delete confirmer")
	}
	if cfg.Delete.Key == "" {
		logr.Warn().Msg("DELETE_CONFIRM_KEY not set, delete tokens do not survive a restart")
	}

	// Create services
	dashboardService := service.NewDashboardService(source, mock.Dataset, confirmer, m, logr)
	marketService := service.NewMarketService(source, dashboardService, logr)
	systemService := service.NewSystemService(source, dashboardService)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := dashboardService.Load(loadCtx); err != nil {
		logr.Warn().Err(err).Msg("Initial load failed")
	}
	cancelLoad()

	// Background jobs
	sched := scheduler.New(logr, m)
	if err := sched.AddJob(cfg.Schedule.PriceRefresh, scheduler.NewPriceRefreshJob(marketService, logr)); err != nil {
		logr.Fatal().Err(err).Msg("Invalid price refresh schedule")
	}
	if err := sched.AddJob(cfg.Schedule.Snapshot, scheduler.NewSnapshotJob(dashboardService, logr)); err != nil {
		logr.Fatal().Err(err).Msg("Invalid snapshot schedule")
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Dashboard: dashboardService,
		Market:    marketService,
		Confirmer: confirmer,
	}, cfg, logr, m)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logr.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Error().Err(err).Msg("Server forced to shutdown")
	}

	logr.Info().Msg("Server exited")
}
