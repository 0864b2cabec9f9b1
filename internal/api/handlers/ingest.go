package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/prepbuddy-ai/prepbuddy/internal/api"
	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// IngestRunner drives the ingestion pipeline.
type IngestRunner interface {
	Ingest(ctx context.Context) (*service.IngestResult, error)
	Status(ctx context.Context) (*service.IngestStatus, error)
	Clear(ctx context.Context) error
}

// IngestHandler handles index management requests.
type IngestHandler struct {
	ingester IngestRunner
	// onClear re-arms the background worker after the index is wiped.
	onClear func()
}

// NewIngestHandler creates a new IngestHandler instance.
func NewIngestHandler(ingester IngestRunner, onClear func()) *IngestHandler {
	return &IngestHandler{ingester: ingester, onClear: onClear}
}

type ingestResultResponse struct {
	DocumentsSeen    int  `json:"documents_seen"`
	DocumentsSkipped int  `json:"documents_skipped"`
	ChunksExtracted  int  `json:"chunks_extracted"`
	ChunksIndexed    int  `json:"chunks_indexed"`
	ChunksSkipped    int  `json:"chunks_skipped"`
	AlreadyIngested  bool `json:"already_ingested"`
}

type ingestStatusResponse struct {
	StoredChunks   int  `json:"stored_chunks"`
	DiscoveredPDFs int  `json:"discovered_pdfs"`
	Ready          bool `json:"ready"`
}

// Trigger handles POST /api/ingest
func (h *IngestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingester.Ingest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrIngestionRunning) {
			api.Error(w, http.StatusConflict, err.Error())
			return
		}
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ingestResultResponse{
		DocumentsSeen:    result.DocumentsSeen,
		DocumentsSkipped: result.DocumentsSkipped,
		ChunksExtracted:  result.ChunksExtracted,
		ChunksIndexed:    result.ChunksIndexed,
		ChunksSkipped:    result.ChunksSkipped,
		AlreadyIngested:  result.AlreadyIngested,
	})
}

// Status handles GET /api/ingest/status
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.ingester.Status(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ingestStatusResponse{
		StoredChunks:   status.StoredChunks,
		DiscoveredPDFs: status.DiscoveredPDFs,
		Ready:          status.StoredChunks > 0,
	})
}

// Clear handles POST /api/clear
func (h *IngestHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.ingester.Clear(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}
	if h.onClear != nil {
		h.onClear()
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "cleared"})
}
