package usecase

import (
	"context"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// Runner wires the scheduler driver with the ingestion use case.
type Runner struct {
	driver   ports.Scheduler
	ingestor *Ingestor
}

// NewRunner returns a helper to start/stop recurring ingestion runs.
func NewRunner(driver ports.Scheduler, ingestor *Ingestor) *Runner {
	return &Runner{driver: driver, ingestor: ingestor}
}

// Start registers the ingestor with the provided scheduler.
func (r *Runner) Start(ctx context.Context) error {
	if r.driver == nil || r.ingestor == nil {
		return nil
	}

	job := func(time.Time) {
		r.ingestor.Run(ctx)
	}

	return r.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (r *Runner) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	return r.driver.Stop(ctx)
}
