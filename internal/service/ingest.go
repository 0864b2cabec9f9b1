package service

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/extract"
	"github.com/prepbuddy-ai/prepbuddy/internal/sources"
	"github.com/prepbuddy-ai/prepbuddy/internal/store"
	"github.com/prepbuddy-ai/prepbuddy/internal/telemetry"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	Chunking ChunkConfig
	// BatchSize bounds how many chunks are embedded and upserted per
	// round trip; a crash loses at most one batch.
	BatchSize int
	// EmbedTimeout caps each embedding call.
	EmbedTimeout time.Duration
}

// DefaultIngestConfig provides sane pipeline defaults.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		Chunking:     DefaultChunkConfig(),
		BatchSize:    8,
		EmbedTimeout: 30 * time.Second,
	}
}

// IngestResult reports what one ingestion run did.
type IngestResult struct {
	DocumentsSeen    int
	DocumentsSkipped int
	ChunksExtracted  int
	ChunksIndexed    int
	ChunksSkipped    int
	// AlreadyIngested is set when the store was populated and the run
	// short-circuited to a no-op.
	AlreadyIngested bool
}

// IngestStatus is the side-effect-free view of the index.
type IngestStatus struct {
	StoredChunks   int
	DiscoveredPDFs int
}

// IngestionService runs the extract → chunk → embed → upsert pipeline.
// Only one run executes at a time.
type IngestionService struct {
	source   sources.Source
	embedder EmbeddingClient
	store    store.VectorStore
	cfg      IngestConfig

	mu sync.Mutex
}

// NewIngestionService creates a new IngestionService instance.
func NewIngestionService(source sources.Source, embedder EmbeddingClient, st store.VectorStore, cfg IngestConfig) *IngestionService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultIngestConfig().BatchSize
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultIngestConfig().EmbedTimeout
	}
	return &IngestionService{
		source:   source,
		embedder: embedder,
		store:    st,
		cfg:      cfg,
	}
}

// Ingest populates the vector store from the document source. Unreadable
// documents and failed chunks are skipped and counted; the run only fails
// when the store itself is unreachable or no embedding backend exists.
// A populated store makes the run an idempotent no-op; Clear must precede
// a deliberate re-ingestion.
func (s *IngestionService) Ingest(ctx context.Context) (*IngestResult, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrIngestionRunning
	}
	defer s.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "IngestionService.Ingest", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	count, err := s.store.Count(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if count > 0 {
		log.Info().Int("stored_chunks", count).Msg("store already populated, skipping ingestion")
		return &IngestResult{AlreadyIngested: true}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	names, err := s.source.List(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to enumerate documents", err)
	}

	result := &IngestResult{}
	var chunks []domain.Chunk
	for _, name := range names {
		result.DocumentsSeen++
		extracted, err := s.extractDocument(ctx, name)
		if err != nil {
			result.DocumentsSkipped++
			log.Warn().Str("document", name).Err(err).Msg("skipping unreadable document")
			continue
		}
		chunks = append(chunks, extracted...)
	}
	result.ChunksExtracted = len(chunks)

	for start := 0; start < len(chunks); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		indexed, skipped, err := s.indexBatch(ctx, chunks[start:end])
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		result.ChunksIndexed += indexed
		result.ChunksSkipped += skipped
	}

	log.Info().
		Int("documents_seen", result.DocumentsSeen).
		Int("chunks_extracted", result.ChunksExtracted).
		Int("chunks_indexed", result.ChunksIndexed).
		Int("chunks_skipped", result.ChunksSkipped).
		Msg("ingestion complete")
	return result, nil
}

// Status reports the stored chunk count and discovered PDF count without
// side effects.
func (s *IngestionService) Status(ctx context.Context) (*IngestStatus, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.source.List(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to enumerate documents", err)
	}
	return &IngestStatus{StoredChunks: count, DiscoveredPDFs: len(names)}, nil
}

// Clear empties the vector store so a deliberate re-ingestion can run.
func (s *IngestionService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *IngestionService) extractDocument(ctx context.Context, name string) ([]domain.Chunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestionService.ExtractDocument", telemetry.SpanAttributes{
		Document:  name,
		Operation: "extract",
	})
	defer span.End()

	path, err := s.source.Fetch(ctx, name)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDocumentUnreadable, "cannot fetch document", err)
	}

	doc, err := extract.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var chunks []domain.Chunk
	for {
		page, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, ChunkPage(page.Text, page.Number, name, s.cfg.Chunking)...)
	}
	return chunks, nil
}

// indexBatch embeds a batch of chunks and upserts them. A failed batch
// embedding falls back to embedding chunks one by one so a single bad
// chunk cannot sink its batch; individual failures are skipped and
// logged with their chunk ID. Store failures abort the run.
func (s *IngestionService) indexBatch(ctx context.Context, batch []domain.Chunk) (indexed, skipped int, err error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	embeddings, embedErr := s.embedder.GenerateEmbeddings(embedCtx, texts)
	cancel()

	var entries []store.Entry
	if embedErr == nil {
		for i, c := range batch {
			entries = append(entries, entryFromChunk(c, embeddings[i]))
		}
	} else {
		log.Warn().Err(embedErr).Msg("batch embedding failed, retrying chunks individually")
		for _, c := range batch {
			embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
			embedding, err := s.embedder.GenerateEmbedding(embedCtx, c.Text)
			cancel()
			if err != nil {
				skipped++
				log.Warn().Str("chunk_id", c.ID()).Err(err).Msg("skipping chunk, embedding unavailable")
				continue
			}
			entries = append(entries, entryFromChunk(c, embedding))
		}
	}

	if len(entries) == 0 {
		return 0, skipped, nil
	}
	if err := s.store.Upsert(ctx, entries); err != nil {
		return 0, skipped, err
	}
	return len(entries), skipped, nil
}

func entryFromChunk(c domain.Chunk, embedding []float32) store.Entry {
	return store.Entry{
		ID:        c.ID(),
		Text:      c.Text,
		Embedding: embedding,
		Metadata: map[string]string{
			store.MetaFilename: c.SourceDocument,
			store.MetaPage:     strconv.Itoa(c.PageNumber),
			store.MetaSection:  c.SectionLabel,
		},
	}
}
