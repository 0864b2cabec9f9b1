package store

import (
	"context"
	"errors"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
)

// ChromemStore is the default vector store: a directory-backed chromem-go
// database holding the textbook_chunks collection.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	path       string
}

// precomputedOnly rejects implicit embedding. Every document and query
// carries a vector computed by the embedding provider, so chromem must
// never fall back to its own embedding function.
func precomputedOnly(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embeddings must be precomputed by the embedding provider")
}

// NewChromemStore opens (or creates) a persistent store at path. An empty
// path yields an in-memory store, used by tests.
func NewChromemStore(path string) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to open vector store", err)
		}
	}

	collection, err := db.GetOrCreateCollection(CollectionName, nil, precomputedOnly)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to open collection", err)
	}

	return &ChromemStore{db: db, collection: collection, path: path}, nil
}

// Upsert adds or replaces documents keyed by entry ID. chromem keys its
// documents by ID, so re-adding is a replace, not a duplicate.
func (s *ChromemStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Metadata:  e.Metadata,
			Embedding: e.Embedding,
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to add documents", err)
	}
	return nil
}

// Query returns the min(k, count) nearest neighbors by cosine similarity.
func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	hits, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "similarity query failed", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			ID:       h.ID,
			Text:     h.Content,
			Metadata: h.Metadata,
			Score:    h.Similarity,
		})
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Clear drops the collection and recreates it empty.
func (s *ChromemStore) Clear(ctx context.Context) error {
	if err := s.db.DeleteCollection(CollectionName); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to delete collection", err)
	}

	collection, err := s.db.GetOrCreateCollection(CollectionName, nil, precomputedOnly)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to recreate collection", err)
	}
	s.collection = collection
	log.Info().Str("collection", CollectionName).Msg("vector store cleared")
	return nil
}

// Close is a no-op: chromem persists each mutation as it happens.
func (s *ChromemStore) Close() {}
