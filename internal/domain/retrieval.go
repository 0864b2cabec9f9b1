package domain

import (
	"fmt"
	"strings"
)

// RetrievalOutcome distinguishes real retrieval hits from the placeholder
// context used when the index is cold or a backend is unreachable.
type RetrievalOutcome string

const (
	// OutcomeFound means the chunks came from the vector index.
	OutcomeFound RetrievalOutcome = "found"
	// OutcomeDegraded means a backend was unavailable and a static
	// context was substituted.
	OutcomeDegraded RetrievalOutcome = "degraded"
	// OutcomeEmpty means retrieval worked but the store held nothing
	// relevant.
	OutcomeEmpty RetrievalOutcome = "empty"
)

// RetrievedChunk is one retrieval hit with the metadata needed for
// prompting and citation.
type RetrievedChunk struct {
	Text           string
	SourceDocument string
	PageNumber     int
	SectionLabel   string
	Score          float32
}

// Citation returns the source reference in "<file> (page <n>)" form.
func (c RetrievedChunk) Citation() string {
	return fmt.Sprintf("%s (page %d)", c.SourceDocument, c.PageNumber)
}

// FallbackContext is substituted when no chunks can be retrieved, so the
// assistant can always produce some answer.
const FallbackContext = "Sample textbook context for exam preparation."

// FallbackCitation labels the substituted context in source lists.
const FallbackCitation = "Sample Textbook"

// RetrievalResult is the outcome of a single retrieval call. Chunks are
// ordered best-first and never exceed the requested K.
type RetrievalResult struct {
	Outcome RetrievalOutcome
	Chunks  []RetrievedChunk
}

// Context assembles the retrieved chunks into the excerpt block handed to
// the completion API. Degraded and empty results yield the fallback text.
func (r *RetrievalResult) Context() string {
	if r.Outcome != OutcomeFound || len(r.Chunks) == 0 {
		return FallbackContext
	}
	parts := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		parts = append(parts, fmt.Sprintf("From %s:\n%s", c.Citation(), c.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Citations lists the source references for the result, best-first.
func (r *RetrievalResult) Citations() []string {
	if r.Outcome != OutcomeFound || len(r.Chunks) == 0 {
		return []string{FallbackCitation}
	}
	citations := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		citations = append(citations, c.Citation())
	}
	return citations
}
