package service

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/extract"
)

// QuestionService mines practice questions from question-bank PDFs.
// Questions are recomputed on each call, never persisted. The fallback
// chain guarantees a non-empty set: question PDFs, then the sample
// questions file, then the built-in defaults.
type QuestionService struct {
	questionsDir string
	samplePath   string
}

// NewQuestionService creates a new QuestionService instance.
func NewQuestionService(questionsDir, samplePath string) *QuestionService {
	return &QuestionService{questionsDir: questionsDir, samplePath: samplePath}
}

// Load returns the current question set in extraction order.
func (s *QuestionService) Load(ctx context.Context) []domain.PracticeQuestion {
	questions := s.loadFromPDFs(ctx)
	if len(questions) == 0 {
		questions = s.loadFromSampleFile()
	}
	if len(questions) == 0 {
		questions = domain.DefaultQuestions()
	}
	return questions
}

// Random returns one randomly selected practice question.
func (s *QuestionService) Random(ctx context.Context) domain.PracticeQuestion {
	questions := s.Load(ctx)
	return questions[rand.IntN(len(questions))]
}

func (s *QuestionService) loadFromPDFs(ctx context.Context) []domain.PracticeQuestion {
	entries, err := os.ReadDir(s.questionsDir)
	if err != nil {
		return nil
	}

	var questions []domain.PracticeQuestion
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		text, err := extract.AllText(filepath.Join(s.questionsDir, name))
		if err != nil {
			log.Warn().Str("document", name).Err(err).Msg("skipping unreadable question document")
			continue
		}
		questions = append(questions, domain.MineQuestions(text, name)...)
	}
	return questions
}

func (s *QuestionService) loadFromSampleFile() []domain.PracticeQuestion {
	if s.samplePath == "" {
		return nil
	}
	content, err := os.ReadFile(s.samplePath)
	if err != nil {
		return nil
	}
	return domain.ParseQuestionBlocks(string(content), "Sample Questions")
}
