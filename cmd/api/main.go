package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-offers/internal/catalog"
	"clinic-offers/internal/config"
	"clinic-offers/internal/database"
	"clinic-offers/internal/handler"
	"clinic-offers/internal/offer"
	"clinic-offers/internal/repository"
	"clinic-offers/internal/router"
	"clinic-offers/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting clinic-offers API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	offerRepo := repository.NewOfferRepository(pool, logger)
	patientRepo := repository.NewPatientRepository(pool, logger)
	serviceRepo := repository.NewServiceRepository(pool, logger)
	redemptionRepo := repository.NewRedemptionRepository(pool, logger)
	walletRepo := repository.NewWalletRepository(pool, logger)

	// Initialize services
	evaluator := offer.NewEngine(logger)
	pricingService := service.NewPricingService(patientRepo, serviceRepo, offerRepo, redemptionRepo, evaluator, logger)
	offerService := service.NewOfferService(offerRepo, logger)
	walletService := service.NewWalletService(walletRepo, offerRepo, serviceRepo, logger)

	// Import the offer catalogue at startup when a source is configured
	if err := importCatalogue(ctx, cfg.Catalog, offerService, logger); err != nil {
		return err
	}

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(pricingService, logger)
	offerHandler := handler.NewOfferHandler(offerService, logger)
	walletHandler := handler.NewWalletHandler(walletService, logger)
	directoryHandler := handler.NewDirectoryHandler(serviceRepo, patientRepo, logger)

	// Initialize router
	mux := router.New(quoteHandler, offerHandler, walletHandler, directoryHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// importCatalogue loads the offer catalogue from the configured source and
// upserts it into the database. With source "db" the stored offers are used
// as-is.
func importCatalogue(ctx context.Context, cfg config.CatalogConfig, offers service.OfferService, logger zerolog.Logger) error {
	if cfg.Source == "db" {
		return nil
	}

	fileLoader := catalog.NewFileLoader(logger)
	loader := fileLoader

	if cfg.Source == "s3" {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
		}
	}

	loaded, err := loader.Load(ctx, cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to load offer catalogue: %w", err)
	}

	if err := offers.ImportCatalog(ctx, loaded); err != nil {
		return fmt.Errorf("failed to import offer catalogue: %w", err)
	}

	logger.Info().
		Str("source", cfg.Source).
		Int("offer_count", len(loaded)).
		Msg("offer catalogue imported at startup")

	return nil
}
