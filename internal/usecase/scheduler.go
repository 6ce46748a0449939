package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"TaxNewsletter/internal/ports"
)

// Scheduler wires the interval driver with the newsletter pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring run.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler. A firing
// that lands while a run is still executing is dropped, not queued.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		err := s.pipeline.Run(ctx)
		switch {
		case errors.Is(err, ErrRunInProgress):
			if s.logger != nil {
				s.logger.Warn("scheduled run skipped, previous run still executing", "trigger", trigger)
			}
		case err != nil:
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
