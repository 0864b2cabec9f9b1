package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	c := Chunk{SourceDocument: "tax_procedures.pdf", PageNumber: 12, Ordinal: 3}
	assert.Equal(t, "tax_procedures.pdf_p12_c3", c.ID())

	// Same chunk always gets the same ID.
	assert.Equal(t, c.ID(), c.ID())
}

func TestChunkCitation(t *testing.T) {
	c := Chunk{SourceDocument: "tax_procedures.pdf", PageNumber: 12}
	assert.Equal(t, "tax_procedures.pdf (page 12)", c.Citation())
}

func TestValidateChunk(t *testing.T) {
	valid := Chunk{Text: "Some passage.", SourceDocument: "doc.pdf", PageNumber: 1, Ordinal: 0}
	require.NoError(t, ValidateChunk(valid))

	tests := []struct {
		name  string
		chunk Chunk
	}{
		{"empty text", Chunk{SourceDocument: "doc.pdf", PageNumber: 1}},
		{"missing source", Chunk{Text: "x", PageNumber: 1}},
		{"zero page", Chunk{Text: "x", SourceDocument: "doc.pdf", PageNumber: 0}},
		{"negative ordinal", Chunk{Text: "x", SourceDocument: "doc.pdf", PageNumber: 1, Ordinal: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			require.Error(t, err)
			domainErr, ok := err.(*DomainError)
			require.True(t, ok)
			assert.Equal(t, ErrCodeValidation, domainErr.Code)
		})
	}
}
