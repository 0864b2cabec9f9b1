package domain

import "fmt"

// Chunk is a bounded passage of textbook text plus the metadata needed to
// cite it back to its source page.
type Chunk struct {
	Text           string
	SourceDocument string
	PageNumber     int
	SectionLabel   string
	Ordinal        int
}

// ID returns the deterministic chunk identifier. Re-ingesting the same
// document produces the same IDs, so upserts overwrite instead of
// duplicating.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_p%d_c%d", c.SourceDocument, c.PageNumber, c.Ordinal)
}

// Citation returns the human-readable source reference for this chunk.
func (c Chunk) Citation() string {
	return fmt.Sprintf("%s (page %d)", c.SourceDocument, c.PageNumber)
}

// ValidateChunk checks the invariants every stored chunk must satisfy.
func ValidateChunk(c Chunk) error {
	if c.Text == "" {
		return NewDomainError(ErrCodeValidation, "chunk text cannot be empty")
	}
	if c.SourceDocument == "" {
		return NewDomainError(ErrCodeValidation, "chunk source document is required")
	}
	if c.PageNumber < 1 {
		return NewDomainError(ErrCodeValidation, fmt.Sprintf("chunk page number must be >= 1, got %d", c.PageNumber))
	}
	if c.Ordinal < 0 {
		return NewDomainError(ErrCodeValidation, "chunk ordinal cannot be negative")
	}
	return nil
}
