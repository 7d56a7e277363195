package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/api"
	"github.com/ndewijer/Investment-Research-Backend/internal/config"
	"github.com/ndewijer/Investment-Research-Backend/internal/database"
	"github.com/ndewijer/Investment-Research-Backend/internal/logging"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
	"github.com/ndewijer/Investment-Research-Backend/internal/scheduler"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/version"
	"github.com/ndewijer/Investment-Research-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New(config.NewDefaultConfig().Logging).Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Logging)

	if cfg.Auth.InternalAPIKey == "" {
		logger.Warn().Msg("INTERNAL_API_KEY is not set, memo ingestion and watchlist updates will fail")
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logger.Info().
		Str("path", cfg.Database.Path).
		Int64("schema_version", schemaVersion).
		Str("version", version.Version).
		Msg("connected to database")

	// Create repositories
	memoRepo := repository.NewMemoRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	memoService := service.NewMemoService(db, memoRepo)
	investmentService := service.NewInvestmentService(investmentRepo, memoRepo, logger)
	reviewService := service.NewReviewService(db, memoRepo, investmentRepo, logger)
	analystService := service.NewAnalystService(db, memoRepo, investmentRepo)
	watchlistService := service.NewWatchlistService(db, watchlistRepo)
	priceRefreshService := service.NewPriceRefreshService(
		investmentService,
		yahoo.NewFinanceClient(),
		cfg.Prices.Concurrency,
		logger,
	)

	// Schedule the price refresh
	jobs := scheduler.New(logger, 5*time.Minute)
	if err := jobs.AddPriceRefresh(cfg.Prices.Schedule, priceRefreshService); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule price refresh")
	}
	jobs.Start()

	// Create router
	router := api.NewRouter(
		systemService,
		memoService,
		reviewService,
		investmentService,
		priceRefreshService,
		analystService,
		watchlistService,
		logger,
		cfg,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobs.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("scheduled jobs did not finish in time")
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}
