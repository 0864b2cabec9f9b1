// Package store defines the vector persistence contract and its backends.
package store

import "context"

// CollectionName is the single collection all textbook chunks live in.
const CollectionName = "textbook_chunks"

// Metadata keys stored alongside each chunk.
const (
	MetaFilename = "filename"
	MetaPage     = "page"
	MetaSection  = "section"
)

// Entry is one (id, vector, text, metadata) tuple to persist.
type Entry struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

// Result is one nearest-neighbor hit, best-first within a query response.
// Score is a similarity where larger means more relevant.
type Result struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float32
}

// VectorStore persists chunk embeddings and answers nearest-neighbor
// queries. Mutations are durable before the call returns.
type VectorStore interface {
	// Upsert inserts or replaces entries keyed by ID. Calling it twice
	// with identical arguments leaves the store unchanged.
	Upsert(ctx context.Context, entries []Entry) error

	// Query returns at most k nearest neighbors ordered by decreasing
	// similarity. An empty result is valid when the store is empty or
	// holds fewer than k entries.
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear deletes all entries; a subsequent Count returns 0.
	Clear(ctx context.Context) error

	// Close releases the underlying store.
	Close()
}
