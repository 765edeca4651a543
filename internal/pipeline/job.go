package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fundsync/backend/internal/catalog"
	"github.com/fundsync/backend/internal/models"
)

// Crawler yields the full fund catalog.
type Crawler interface {
	CrawlAll(ctx context.Context) ([]models.FundRecord, error)
}

// Uploader publishes one complete batch of enriched funds.
type Uploader interface {
	Upload(ctx context.Context, stats []models.FundStats) error
}

// Job is one full sync run: crawl, enrich, publish.
type Job struct {
	crawler  Crawler
	enricher *Enricher
	uploader Uploader
	dedup    bool
}

func NewJob(crawler Crawler, enricher *Enricher, uploader Uploader, dedup bool) *Job {
	return &Job{
		crawler:  crawler,
		enricher: enricher,
		uploader: uploader,
		dedup:    dedup,
	}
}

// Run executes the pipeline once. Crawl and publish failures are fatal
// for the run; enrichment failures only shrink the batch.
func (j *Job) Run(ctx context.Context) error {
	records, err := j.crawler.CrawlAll(ctx)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	funds := catalog.FilterTradable(records, j.dedup)
	fmt.Printf("[SYNC] %d of %d records have a market ticker\n", len(funds), len(records))

	stats, err := j.enricher.Enrich(ctx, funds, time.Now())
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}

	if err := j.uploader.Upload(ctx, stats); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}
