package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betcatalog/core/internal/config"
	"github.com/betcatalog/core/pkg/database/pool"
	"github.com/betcatalog/core/pkg/jobs"
	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/provider"
	"github.com/betcatalog/core/pkg/repository"
	"github.com/betcatalog/core/pkg/services"
)

func main() {
	// Parse command line flags
	var (
		jobName = flag.String("job", "", "Run specific job once (catalog)")
		once    = flag.Bool("once", false, "Run job once and exit")
	)
	flag.Parse()

	logger.SetupLogger()
	log := logger.New("cron-service")

	cfg := config.Load()

	// Connect to database
	db, err := pool.New(context.Background(), cfg.DatabaseURL(), pool.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize services
	sportRepo := repository.NewSportRepository(db, log)
	eventRepo := repository.NewEventRepository(db, log)
	selectionRepo := repository.NewSelectionRepository(db, log)
	oddsClient := provider.NewClient(cfg, log)
	ingest := services.NewIngestService(sportRepo, eventRepo, selectionRepo, oddsClient, cfg.Ingestion, log)

	// Create job manager
	jobManager := jobs.NewJobManager()

	catalogJob := jobs.NewCatalogSyncJob(ingest)
	if err := jobManager.RegisterJob(catalogJob); err != nil {
		log.Fatalf("Failed to register catalog sync job: %v", err)
	}

	// Handle single job execution
	if *once && *jobName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		switch *jobName {
		case "catalog":
			if err := catalogJob.Execute(ctx); err != nil {
				log.Fatalf("Failed to execute catalog job: %v", err)
			}
			log.Info().Msg("Catalog sync completed successfully")
		default:
			log.Fatalf("Unknown job: %s. Available jobs: catalog", *jobName)
		}
		return
	}

	// Start job manager
	jobManager.Start()
	log.Info().
		Int("job_count", len(jobManager.GetJobs())).
		Msg("Cron job service started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down cron job service")
	jobManager.Stop()
	log.Info().Msg("Cron job service stopped")
}
