package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/store"
	"github.com/prepbuddy-ai/prepbuddy/internal/telemetry"
)

// QueryEmbedder generates the query-side embedding.
type QueryEmbedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkQuerier answers nearest-neighbor queries over stored chunks.
type ChunkQuerier interface {
	Query(ctx context.Context, embedding []float32, k int) ([]store.Result, error)
}

// RetrievalService finds the chunks most relevant to a query. It never
// fails: when the embedding backend or store is unavailable the result is
// Degraded, and an empty index yields Empty. Callers always get something
// they can prompt with.
type RetrievalService struct {
	embedder QueryEmbedder
	querier  ChunkQuerier
	timeout  time.Duration
}

// NewRetrievalService creates a new RetrievalService instance. A nil
// embedder or querier produces a service that always degrades, used when
// no API key is configured.
func NewRetrievalService(embedder QueryEmbedder, querier ChunkQuerier, timeout time.Duration) *RetrievalService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RetrievalService{embedder: embedder, querier: querier, timeout: timeout}
}

// Retrieve returns the top-k chunks for the query, best first.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) *domain.RetrievalResult {
	if s.embedder == nil || s.querier == nil {
		return &domain.RetrievalResult{Outcome: domain.OutcomeDegraded}
	}

	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("query embedding failed, degrading to fallback context")
		return &domain.RetrievalResult{Outcome: domain.OutcomeDegraded}
	}

	results, err := s.querier.Query(ctx, embedding, k)
	if err != nil {
		log.Warn().Err(err).Msg("vector query failed, degrading to fallback context")
		return &domain.RetrievalResult{Outcome: domain.OutcomeDegraded}
	}
	if len(results) == 0 {
		return &domain.RetrievalResult{Outcome: domain.OutcomeEmpty}
	}

	chunks := make([]domain.RetrievedChunk, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata[store.MetaPage])
		chunks = append(chunks, domain.RetrievedChunk{
			Text:           r.Text,
			SourceDocument: r.Metadata[store.MetaFilename],
			PageNumber:     page,
			SectionLabel:   r.Metadata[store.MetaSection],
			Score:          r.Score,
		})
	}
	return &domain.RetrievalResult{Outcome: domain.OutcomeFound, Chunks: chunks}
}
