package service

import (
	"regexp"
	"strings"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
)

// ChunkConfig controls how page text is split into indexable chunks.
type ChunkConfig struct {
	// MaxChars bounds chunk size in runes. A chunk may exceed it only
	// when a single sentence alone is longer than the bound.
	MaxChars int
	// MinChars discards paragraphs shorter than this, filtering noise
	// from headers, footers, and page numbers. Section headings are
	// exempt: they carry the section label.
	MinChars int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChars: 1200,
		MinChars: 40,
	}
}

var (
	paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)
	// sectionPattern matches heading-like lines: all uppercase letters
	// with spaces, hyphens, or colons and no lowercase.
	sectionPattern = regexp.MustCompile(`^[A-Z][A-Z\s\-:]+$`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// ChunkPage splits one page of raw text into chunks. Empty or
// whitespace-only text yields zero chunks. Ordinals restart per page so
// chunk IDs are deterministic across runs.
func ChunkPage(rawText string, pageNumber int, source string, cfg ChunkConfig) []domain.Chunk {
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}

	var chunks []domain.Chunk
	ordinal := 0
	for _, para := range paragraphSplit.Split(rawText, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		label := ""
		if sectionPattern.MatchString(para) {
			label = para
		}
		if label == "" && len([]rune(para)) < cfg.MinChars {
			continue
		}

		for _, text := range splitOversized(para, cfg.MaxChars) {
			chunks = append(chunks, domain.Chunk{
				Text:           text,
				SourceDocument: source,
				PageNumber:     pageNumber,
				SectionLabel:   label,
				Ordinal:        ordinal,
			})
			ordinal++
		}
	}
	return chunks
}

// splitOversized re-splits a paragraph that exceeds max at sentence
// boundaries, greedily packing sentences into each chunk. A paragraph
// with no terminal punctuation, or a single sentence longer than max,
// falls back to a hard cut at the rune bound so the split always
// terminates.
func splitOversized(para string, max int) []string {
	if len([]rune(para)) <= max {
		return []string{para}
	}

	locs := sentencePattern.FindAllStringIndex(para, -1)
	sentences := make([]string, 0, len(locs)+1)
	tail := 0
	for _, loc := range locs {
		sentences = append(sentences, para[loc[0]:loc[1]])
		tail = loc[1]
	}
	if rest := strings.TrimSpace(para[tail:]); rest != "" {
		sentences = append(sentences, rest)
	}
	if len(sentences) == 0 {
		return hardCut(para, max)
	}

	var out []string
	var buf strings.Builder
	bufLen := 0
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		runes := len([]rune(sentence))

		if runes > max {
			if bufLen > 0 {
				out = append(out, buf.String())
				buf.Reset()
				bufLen = 0
			}
			out = append(out, hardCut(sentence, max)...)
			continue
		}

		// +1 for the joining space
		if bufLen > 0 && bufLen+runes+1 > max {
			out = append(out, buf.String())
			buf.Reset()
			bufLen = 0
		}
		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		}
		buf.WriteString(sentence)
		bufLen += runes
	}
	if bufLen > 0 {
		out = append(out, buf.String())
	}
	return out
}

func hardCut(text string, max int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
