package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// MockTutor is a mock implementation of Tutor
type MockTutor struct {
	mock.Mock
}

func (m *MockTutor) Ask(ctx context.Context, question string) (*service.TutorResponse, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TutorResponse), args.Error(1)
}

func (m *MockTutor) CheckAnswer(ctx context.Context, question, answer string) (*service.TutorResponse, error) {
	args := m.Called(ctx, question, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TutorResponse), args.Error(1)
}

// MockQuestionProvider is a mock implementation of QuestionProvider
type MockQuestionProvider struct {
	mock.Mock
}

func (m *MockQuestionProvider) Load(ctx context.Context) []domain.PracticeQuestion {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PracticeQuestion)
}

func (m *MockQuestionProvider) Random(ctx context.Context) domain.PracticeQuestion {
	args := m.Called(ctx)
	return args.Get(0).(domain.PracticeQuestion)
}

// MockIngestRunner is a mock implementation of IngestRunner
type MockIngestRunner struct {
	mock.Mock
}

func (m *MockIngestRunner) Ingest(ctx context.Context) (*service.IngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockIngestRunner) Status(ctx context.Context) (*service.IngestStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestStatus), args.Error(1)
}

func (m *MockIngestRunner) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func TestTutorHandler_Ask(t *testing.T) {
	t.Run("answers a question", func(t *testing.T) {
		mockTutor := new(MockTutor)
		mockTutor.On("Ask", mock.Anything, "What is the Tax Court?").
			Return(&service.TutorResponse{
				Text:    "A federal trial court for tax disputes.",
				Sources: []string{"tax.pdf (page 1)"},
				Outcome: domain.OutcomeFound,
			}, nil)

		handler := NewTutorHandler(mockTutor)
		body := bytes.NewBufferString(`{"question":"What is the Tax Court?"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
		rec := httptest.NewRecorder()

		handler.Ask(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, "A federal trial court for tax disputes.", data["answer"])
		assert.Equal(t, "found", data["retrieval"])
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		handler := NewTutorHandler(new(MockTutor))
		req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()

		handler.Ask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		mockTutor := new(MockTutor)
		mockTutor.On("Ask", mock.Anything, "").
			Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "question is required"))

		handler := NewTutorHandler(mockTutor)
		req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(`{"question":""}`))
		rec := httptest.NewRecorder()

		handler.Ask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps completion failures to 502", func(t *testing.T) {
		mockTutor := new(MockTutor)
		mockTutor.On("Ask", mock.Anything, mock.Anything).
			Return(nil, domain.NewDomainError(domain.ErrCodeExternalService, "completion API call failed"))

		handler := NewTutorHandler(mockTutor)
		req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(`{"question":"x"}`))
		rec := httptest.NewRecorder()

		handler.Ask(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestTutorHandler_Check(t *testing.T) {
	mockTutor := new(MockTutor)
	mockTutor.On("CheckAnswer", mock.Anything, "Q?", "A.").
		Return(&service.TutorResponse{
			Text:    "Correct.",
			Sources: []string{"tax.pdf (page 2)"},
			Outcome: domain.OutcomeFound,
		}, nil)

	handler := NewTutorHandler(mockTutor)
	body := bytes.NewBufferString(`{"question":"Q?","answer":"A."}`)
	req := httptest.NewRequest(http.MethodPost, "/api/check", body)
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "Correct.", data["answer"])
	mockTutor.AssertExpectations(t)
}

func TestQuestionsHandler(t *testing.T) {
	t.Run("lists every question", func(t *testing.T) {
		mockProvider := new(MockQuestionProvider)
		mockProvider.On("Load", mock.Anything).Return([]domain.PracticeQuestion{
			{Text: "Q1", Source: "exam.pdf"},
			{Text: "Q2", Source: "exam.pdf"},
		})

		handler := NewQuestionsHandler(mockProvider)
		req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data []map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		require.Len(t, envelope.Data, 2)
		assert.Equal(t, "Q1", envelope.Data[0]["text"])
		assert.Equal(t, "exam.pdf", envelope.Data[0]["source"])
	})

	t.Run("returns a random question", func(t *testing.T) {
		mockProvider := new(MockQuestionProvider)
		mockProvider.On("Random", mock.Anything).
			Return(domain.PracticeQuestion{Text: "Q1", Source: "Default Questions"})

		handler := NewQuestionsHandler(mockProvider)
		req := httptest.NewRequest(http.MethodGet, "/api/questions/random", nil)
		rec := httptest.NewRecorder()

		handler.Random(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, "Q1", data["text"])
	})
}

func TestIngestHandler(t *testing.T) {
	t.Run("triggers an ingestion run", func(t *testing.T) {
		mockRunner := new(MockIngestRunner)
		mockRunner.On("Ingest", mock.Anything).Return(&service.IngestResult{
			DocumentsSeen:   2,
			ChunksExtracted: 40,
			ChunksIndexed:   38,
			ChunksSkipped:   2,
		}, nil)

		handler := NewIngestHandler(mockRunner, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
		rec := httptest.NewRecorder()

		handler.Trigger(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(38), data["chunks_indexed"])
		assert.Equal(t, false, data["already_ingested"])
	})

	t.Run("maps a concurrent run to 409", func(t *testing.T) {
		mockRunner := new(MockIngestRunner)
		mockRunner.On("Ingest", mock.Anything).Return(nil, domain.ErrIngestionRunning)

		handler := NewIngestHandler(mockRunner, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
		rec := httptest.NewRecorder()

		handler.Trigger(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("reports status with readiness", func(t *testing.T) {
		mockRunner := new(MockIngestRunner)
		mockRunner.On("Status", mock.Anything).
			Return(&service.IngestStatus{StoredChunks: 12, DiscoveredPDFs: 2}, nil)

		handler := NewIngestHandler(mockRunner, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/ingest/status", nil)
		rec := httptest.NewRecorder()

		handler.Status(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(12), data["stored_chunks"])
		assert.Equal(t, true, data["ready"])
	})

	t.Run("clear re-arms the background worker", func(t *testing.T) {
		mockRunner := new(MockIngestRunner)
		mockRunner.On("Clear", mock.Anything).Return(nil)

		rearmed := false
		handler := NewIngestHandler(mockRunner, func() { rearmed = true })
		req := httptest.NewRequest(http.MethodPost, "/api/clear", nil)
		rec := httptest.NewRecorder()

		handler.Clear(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, rearmed)
		mockRunner.AssertExpectations(t)
	})

	t.Run("maps a store failure to 503", func(t *testing.T) {
		mockRunner := new(MockIngestRunner)
		mockRunner.On("Clear", mock.Anything).Return(domain.ErrStoreUnavailable)

		handler := NewIngestHandler(mockRunner, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/clear", nil)
		rec := httptest.NewRecorder()

		handler.Clear(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
