package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkPage(t *testing.T) {
	cfg := DefaultChunkConfig()

	t.Run("splits paragraphs on blank lines", func(t *testing.T) {
		text := "The Tax Court was established to resolve disputes between taxpayers and the IRS before payment of the contested amount.\n\nPetitions must be filed within ninety days of the notice of deficiency, a deadline the court treats as jurisdictional."

		chunks := ChunkPage(text, 3, "tax_procedures.pdf", cfg)

		require.Len(t, chunks, 2)
		assert.Equal(t, "tax_procedures.pdf", chunks[0].SourceDocument)
		assert.Equal(t, 3, chunks[0].PageNumber)
		assert.Equal(t, 0, chunks[0].Ordinal)
		assert.Equal(t, 1, chunks[1].Ordinal)
		assert.Contains(t, chunks[0].Text, "established to resolve disputes")
		assert.Contains(t, chunks[1].Text, "ninety days")
	})

	t.Run("keeps short section headings and labels them", func(t *testing.T) {
		text := "TAX COURT PROCEDURES\n\nThe United States Tax Court hears disputes between taxpayers and the Internal Revenue Service before any payment is made."

		chunks := ChunkPage(text, 1, "tax_procedures.pdf", cfg)

		require.Len(t, chunks, 2)
		assert.Equal(t, "TAX COURT PROCEDURES", chunks[0].Text)
		assert.Equal(t, "TAX COURT PROCEDURES", chunks[0].SectionLabel)
		assert.Empty(t, chunks[1].SectionLabel)
	})

	t.Run("drops short non-heading paragraphs", func(t *testing.T) {
		text := "Page 7\n\nThe burden of proof generally rests on the taxpayer, though section 7491 can shift it to the Commissioner in limited cases."

		chunks := ChunkPage(text, 7, "tax_procedures.pdf", cfg)

		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0].Text, "burden of proof")
	})

	t.Run("empty page yields no chunks", func(t *testing.T) {
		assert.Empty(t, ChunkPage("", 1, "doc.pdf", cfg))
		assert.Empty(t, ChunkPage("   \n\n  \t ", 1, "doc.pdf", cfg))
	})

	t.Run("splits oversized paragraphs at sentence boundaries", func(t *testing.T) {
		small := ChunkConfig{MaxChars: 60, MinChars: 5}
		text := "The court sits in Washington. It also travels to other cities. Small cases follow simplified procedures. Decisions there are final."

		chunks := ChunkPage(text, 2, "doc.pdf", small)

		require.Greater(t, len(chunks), 1)
		var joined []string
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c.Text)), small.MaxChars)
			joined = append(joined, c.Text)
		}
		assert.Contains(t, strings.Join(joined, " "), "Decisions there are final.")
	})

	t.Run("hard cuts text with no terminal punctuation", func(t *testing.T) {
		small := ChunkConfig{MaxChars: 40, MinChars: 5}
		text := strings.Repeat("x", 100)

		chunks := ChunkPage(text, 1, "doc.pdf", small)

		require.Len(t, chunks, 3)
		assert.Equal(t, 40, len(chunks[0].Text))
		assert.Equal(t, 40, len(chunks[1].Text))
		assert.Equal(t, 20, len(chunks[2].Text))
	})

	t.Run("ordinals restart per page", func(t *testing.T) {
		text := "The Tax Court issues regular and memorandum opinions, and only regular opinions carry precedential weight in later cases."

		page1 := ChunkPage(text, 1, "doc.pdf", cfg)
		page2 := ChunkPage(text, 2, "doc.pdf", cfg)

		require.Len(t, page1, 1)
		require.Len(t, page2, 1)
		assert.Equal(t, "doc.pdf_p1_c0", page1[0].ID())
		assert.Equal(t, "doc.pdf_p2_c0", page2[0].ID())
	})

	t.Run("same input produces identical chunks", func(t *testing.T) {
		text := "APPEALS\n\nDecisions of the Tax Court are appealable to the regional circuit courts, with venue fixed by the taxpayer's residence."

		first := ChunkPage(text, 4, "doc.pdf", cfg)
		second := ChunkPage(text, 4, "doc.pdf", cfg)

		assert.Equal(t, first, second)
	})
}

func TestSplitOversized(t *testing.T) {
	t.Run("paragraph within bound is untouched", func(t *testing.T) {
		out := splitOversized("Short paragraph.", 100)
		assert.Equal(t, []string{"Short paragraph."}, out)
	})

	t.Run("single sentence longer than bound is hard cut", func(t *testing.T) {
		sentence := strings.Repeat("word ", 20) + "end."
		out := splitOversized(sentence, 30)

		require.NotEmpty(t, out)
		for _, piece := range out {
			assert.LessOrEqual(t, len([]rune(piece)), 30)
		}
	})

	t.Run("trailing text without punctuation is kept", func(t *testing.T) {
		para := "First sentence ends here. " + strings.Repeat("y", 30)
		out := splitOversized(para, 28)

		joined := strings.Join(out, "")
		assert.Contains(t, joined, "First sentence ends here.")
		assert.Equal(t, 30, strings.Count(joined, "y"))
	})

	t.Run("leading punctuation does not duplicate text", func(t *testing.T) {
		para := "... The petition must be filed within ninety days. The fee is sixty dollars."
		out := splitOversized(para, 50)

		require.Len(t, out, 2)
		assert.Equal(t, "The petition must be filed within ninety days.", out[0])
		assert.Equal(t, "The fee is sixty dollars.", out[1])
	})
}
