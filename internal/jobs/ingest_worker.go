package jobs

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// Ingester runs the ingestion pipeline.
type Ingester interface {
	Ingest(ctx context.Context) (*service.IngestResult, error)
}

// IngestWorker populates an empty vector store in the background so the
// server can serve questions while the index warms up. Once the store
// holds chunks it stops doing work; an explicit clear re-arms it.
type IngestWorker struct {
	ingester Ingester
	done     atomic.Bool
}

// NewIngestWorker creates a new IngestWorker instance.
func NewIngestWorker(ingester Ingester) *IngestWorker {
	return &IngestWorker{ingester: ingester}
}

// ProcessJobs implements the JobProcessor interface.
func (w *IngestWorker) ProcessJobs(ctx context.Context) error {
	if w.done.Load() {
		return nil
	}

	result, err := w.ingester.Ingest(ctx)
	if err != nil {
		// A run triggered over the API holds the ingestion lock; let
		// it finish and check again next tick.
		if errors.Is(err, domain.ErrIngestionRunning) {
			return nil
		}
		return err
	}

	if result.AlreadyIngested {
		w.done.Store(true)
		return nil
	}
	if result.ChunksIndexed > 0 {
		log.Info().
			Int("documents_seen", result.DocumentsSeen).
			Int("chunks_indexed", result.ChunksIndexed).
			Msg("background ingestion populated the index")
		w.done.Store(true)
	}
	return nil
}

// Rearm makes the worker attempt ingestion again, used after a clear.
func (w *IngestWorker) Rearm() {
	w.done.Store(false)
}
