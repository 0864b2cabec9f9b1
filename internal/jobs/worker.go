package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/telemetry"
)

// JobProcessor defines the interface for processing jobs
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker represents a background job worker
type Worker struct {
	processor    JobProcessor
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewWorker creates a new Worker instance
func NewWorker(processor JobProcessor, pollInterval time.Duration) *Worker {
	return &Worker{
		processor:    processor,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start begins the worker's polling loop
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Info().Dur("poll_interval", w.pollInterval).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Info().Msg("worker stopped: stop signal received")
			return
		case <-ticker.C:
			if err := w.processor.ProcessJobs(ctx); err != nil {
				telemetry.CaptureError(ctx, err)
				log.Error().Err(err).Msg("error processing jobs")
			}
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Info().Msg("worker shutdown complete")
}
