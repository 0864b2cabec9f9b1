package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingAPI is a mock implementation of EmbeddingAPI
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockCompletionAPI is a mock implementation of CompletionAPI
type MockCompletionAPI struct {
	mock.Mock
}

func (m *MockCompletionAPI) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func newTestClient(embeddings EmbeddingAPI, completions CompletionAPI, dims int) *Client {
	return &Client{embeddings: embeddings, completions: completions, dimensions: dims}
}

func TestClient_GenerateEmbeddings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns embeddings in input order", func(t *testing.T) {
		mockAPI := new(MockEmbeddingAPI)
		mockAPI.On("CreateEmbeddings", mock.Anything, []string{"alpha", "beta"}).
			Return([][]float32{{1, 0}, {0, 1}}, nil)

		client := newTestClient(mockAPI, nil, 2)
		embeddings, err := client.GenerateEmbeddings(ctx, []string{"alpha", "beta"})

		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.Equal(t, []float32{1, 0}, embeddings[0])
		assert.Equal(t, []float32{0, 1}, embeddings[1])
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		client := newTestClient(new(MockEmbeddingAPI), nil, 2)

		embeddings, err := client.GenerateEmbeddings(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, embeddings)
	})

	t.Run("rejects an empty text in the batch", func(t *testing.T) {
		client := newTestClient(new(MockEmbeddingAPI), nil, 2)

		_, err := client.GenerateEmbeddings(ctx, []string{"ok", ""})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("rejects embeddings with the wrong dimensions", func(t *testing.T) {
		mockAPI := new(MockEmbeddingAPI)
		mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).
			Return([][]float32{{1, 0, 0}}, nil)

		client := newTestClient(mockAPI, nil, 2)
		_, err := client.GenerateEmbeddings(ctx, []string{"alpha"})

		assert.ErrorIs(t, err, ErrWrongDimensions)
	})

	t.Run("wraps API failures", func(t *testing.T) {
		mockAPI := new(MockEmbeddingAPI)
		mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		client := newTestClient(mockAPI, nil, 2)
		_, err := client.GenerateEmbeddings(ctx, []string{"alpha"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create embeddings")
	})
}

func TestClient_GenerateEmbedding(t *testing.T) {
	ctx := context.Background()

	mockAPI := new(MockEmbeddingAPI)
	mockAPI.On("CreateEmbeddings", mock.Anything, []string{"single"}).
		Return([][]float32{{0.5, 0.5}}, nil)

	client := newTestClient(mockAPI, nil, 2)
	embedding, err := client.GenerateEmbedding(ctx, "single")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, embedding)
}

func TestClient_CreateChatCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards the prompt pair", func(t *testing.T) {
		mockAPI := new(MockCompletionAPI)
		mockAPI.On("CreateChatCompletion", mock.Anything, "system", "user").
			Return("answer", nil)

		client := newTestClient(nil, mockAPI, 2)
		out, err := client.CreateChatCompletion(ctx, "system", "user")

		require.NoError(t, err)
		assert.Equal(t, "answer", out)
	})

	t.Run("rejects an empty user prompt", func(t *testing.T) {
		client := newTestClient(nil, new(MockCompletionAPI), 2)

		_, err := client.CreateChatCompletion(ctx, "system", "")
		assert.ErrorIs(t, err, ErrEmptyText)
	})
}

func TestNewClientWithConfig(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "test-key"})
	assert.Equal(t, DefaultEmbeddingDimensions, client.Dimensions())

	custom := NewClientWithConfig(Config{APIKey: "test-key", EmbeddingDimensions: 8})
	assert.Equal(t, 8, custom.Dimensions())
}
