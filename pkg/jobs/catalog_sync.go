package jobs

import (
	"context"
	"time"

	"github.com/betcatalog/core/pkg/logger"
)

// CatalogIngester is the slice of the ingest service the sync job needs.
type CatalogIngester interface {
	IngestSports(ctx context.Context, count int) (int, error)
}

type CatalogSyncJob struct {
	ingest CatalogIngester
}

// NewCatalogSyncJob creates a new catalog sync job
func NewCatalogSyncJob(ingest CatalogIngester) Job {
	return &CatalogSyncJob{
		ingest: ingest,
	}
}

func (j *CatalogSyncJob) Execute(ctx context.Context) error {
	log := logger.WithContext(ctx, "catalog-sync")
	start := time.Now()

	log.Info().
		Str("action", "sync_start").
		Msg("Starting catalog sync job")

	created, err := j.ingest.IngestSports(ctx, 0)
	duration := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("action", "sync_failed").
			Dur("duration", duration).
			Msg("Catalog sync failed")
		return err
	}

	log.LogJobComplete("catalog_sync", duration, created, 0)
	return nil
}

func (j *CatalogSyncJob) Name() string {
	return "catalog_sync"
}

func (j *CatalogSyncJob) Schedule() string {
	// The provider's sport catalog changes rarely
	return "0 */6 * * *"
}
