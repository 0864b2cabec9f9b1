package handlers

import (
	"context"
	"net/http"

	"github.com/prepbuddy-ai/prepbuddy/internal/api"
	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
)

// QuestionProvider supplies the practice question set.
type QuestionProvider interface {
	Load(ctx context.Context) []domain.PracticeQuestion
	Random(ctx context.Context) domain.PracticeQuestion
}

// QuestionsHandler serves the practice question bank.
type QuestionsHandler struct {
	questions QuestionProvider
}

// NewQuestionsHandler creates a new QuestionsHandler instance.
func NewQuestionsHandler(questions QuestionProvider) *QuestionsHandler {
	return &QuestionsHandler{questions: questions}
}

type questionResponse struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// List handles GET /api/questions
func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	questions := h.questions.Load(r.Context())

	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionResponse{Text: q.Text, Source: q.Source})
	}
	api.Success(w, http.StatusOK, out)
}

// Random handles GET /api/questions/random
func (h *QuestionsHandler) Random(w http.ResponseWriter, r *http.Request) {
	q := h.questions.Random(r.Context())
	api.Success(w, http.StatusOK, questionResponse{Text: q.Text, Source: q.Source})
}
