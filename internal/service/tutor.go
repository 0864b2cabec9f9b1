package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/telemetry"
)

// CompletionClient forwards a (system, user) prompt pair to the
// completion API and returns the generated text.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ContextRetriever supplies the textbook context for a question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) *domain.RetrievalResult
}

const askSystemPrompt = `You are an encouraging study assistant helping a student prepare for an exam. Use the provided textbook excerpts to answer questions accurately. If the context does not contain enough information, say so clearly. Always cite the source (filename and page) when possible.`

const checkSystemPrompt = `You are an encouraging study assistant helping a student prepare for an exam. Evaluate the student's answer against the provided textbook excerpts. State whether the answer is correct, what was good about it, what needs improvement, and give the correct answer with an explanation. Cite relevant textbook sources.`

// TutorResponse carries the generated text and its source citations.
type TutorResponse struct {
	Text    string
	Sources []string
	Outcome domain.RetrievalOutcome
}

// TutorService answers questions and checks student answers by combining
// retrieval with the completion API.
type TutorService struct {
	completions CompletionClient
	retriever   ContextRetriever
	topK        int
	timeout     time.Duration
}

// NewTutorService creates a new TutorService instance. A nil completions
// client yields a service whose operations fail with
// EXTERNAL_SERVICE_ERROR until an API key is configured.
func NewTutorService(completions CompletionClient, retriever ContextRetriever, topK int, timeout time.Duration) *TutorService {
	if topK <= 0 {
		topK = 3
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TutorService{
		completions: completions,
		retriever:   retriever,
		topK:        topK,
		timeout:     timeout,
	}
}

// Ask answers a free-form question using retrieved textbook context.
func (s *TutorService) Ask(ctx context.Context, question string) (*TutorResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "question is required")
	}

	retrieval := s.retriever.Retrieve(ctx, question, s.topK)
	userPrompt := fmt.Sprintf(
		"Use the following textbook excerpts to answer the question.\n\nContext:\n%s\n\nQuestion: %s\n\nPlease provide a clear, accurate answer based on the context provided.",
		retrieval.Context(), question)

	return s.complete(ctx, askSystemPrompt, userPrompt, retrieval)
}

// CheckAnswer evaluates a student's answer to a practice question.
func (s *TutorService) CheckAnswer(ctx context.Context, question, answer string) (*TutorResponse, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "question is required")
	}
	if answer == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "answer is required")
	}

	retrieval := s.retriever.Retrieve(ctx, question, s.topK)
	userPrompt := fmt.Sprintf(
		"Practice Question: %s\n\nStudent's Answer: %s\n\nTextbook Excerpts:\n%s\n\nPlease provide feedback on the student's answer, with citations to the relevant textbook sources.",
		question, answer, retrieval.Context())

	return s.complete(ctx, checkSystemPrompt, userPrompt, retrieval)
}

// complete performs the single-attempt completion call. Failures surface
// as EXTERNAL_SERVICE_ERROR; there is no retry or backoff.
func (s *TutorService) complete(ctx context.Context, systemPrompt, userPrompt string, retrieval *domain.RetrievalResult) (*TutorResponse, error) {
	if s.completions == nil {
		return nil, domain.NewDomainError(domain.ErrCodeExternalService, "completion API not configured: OpenAI API key required")
	}

	ctx, span := telemetry.StartSpan(ctx, "TutorService.Complete", telemetry.SpanAttributes{
		Operation: "complete",
	})
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completions.CreateChatCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExternalService, "completion API call failed", err)
	}

	return &TutorResponse{
		Text:    strings.TrimSpace(text),
		Sources: retrieval.Citations(),
		Outcome: retrieval.Outcome,
	}, nil
}
