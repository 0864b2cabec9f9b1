package domain

import (
	"regexp"
	"strings"
)

// PracticeQuestion is a question mined from a question-bank PDF. Questions
// are recomputed on demand and never stored in the vector index.
type PracticeQuestion struct {
	Text   string
	Source string
}

// answerMarker separates a question body from its embedded model answer.
// Everything from the marker onward is stripped so students never see it.
const answerMarker = "SUGGESTED ANSWER:"

// minQuestionLength filters out fragments the header regexp matched but
// that carry no usable question body.
const minQuestionLength = 20

// questionHeader matches the start of a numbered exam question, e.g.
// "Question A-1 (2023)".
var questionHeader = regexp.MustCompile(`(?i)Question [A-Z]-\d+ \([^)]+\)`)

// answerMarkerPattern finds the marker case-insensitively with offsets
// into the original text, so multibyte runes before it cannot shift the
// cut point.
var answerMarkerPattern = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(answerMarker))

// MineQuestions extracts practice questions from raw text. A question runs
// from one header to the next (or to the end of the text) and is truncated
// before any suggested-answer marker.
func MineQuestions(text, source string) []PracticeQuestion {
	starts := questionHeader.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	questions := make([]PracticeQuestion, 0, len(starts))
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		body := TruncateAtAnswer(text[loc[0]:end])
		if len(body) < minQuestionLength {
			continue
		}
		questions = append(questions, PracticeQuestion{Text: body, Source: source})
	}
	return questions
}

// TruncateAtAnswer removes everything from the suggested-answer marker
// onward, matching the marker case-insensitively.
func TruncateAtAnswer(text string) string {
	if loc := answerMarkerPattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

// ParseQuestionBlocks splits plain text on blank lines and keeps blocks
// that look like questions. Used for the sample-questions fallback file.
func ParseQuestionBlocks(content, source string) []PracticeQuestion {
	var questions []PracticeQuestion
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || !strings.Contains(block, "Question") {
			continue
		}
		questions = append(questions, PracticeQuestion{Text: block, Source: source})
	}
	return questions
}

// DefaultQuestions is the last-resort question set when no question PDFs
// and no sample file are available.
func DefaultQuestions() []PracticeQuestion {
	texts := []string{
		"What is the primary purpose of the Tax Court in the United States?",
		"What are the filing requirements for a petition to the Tax Court?",
		"Who bears the burden of proof in Tax Court proceedings?",
		"What are the Small Case Procedures in Tax Court?",
		"How does the appeals process work for Tax Court decisions?",
	}
	questions := make([]PracticeQuestion, 0, len(texts))
	for _, t := range texts {
		questions = append(questions, PracticeQuestion{Text: t, Source: "Default Questions"})
	}
	return questions
}
