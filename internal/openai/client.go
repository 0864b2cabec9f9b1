package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
	// DefaultChatModel is the completion model used for tutoring responses
	DefaultChatModel = openai.GPT3Dot5Turbo

	completionTemperature = 0.3
	completionMaxTokens   = 1000
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionAPI defines the interface for chat completions
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client wraps the OpenAI API for embeddings and chat completions
type Client struct {
	embeddings  EmbeddingAPI
	completions CompletionAPI
	dimensions  int
}

type OpenAIAdapter struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	chatModel string
}

func NewOpenAIAdapter(apiKey string, model openai.EmbeddingModel, chatModel string) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	return &OpenAIAdapter{
		client:    openai.NewClient(apiKey),
		model:     model,
		chatModel: chatModel,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings for a batch
// of texts. The response is reordered by index so output position i always
// corresponds to input position i.
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	data := make([]openai.Embedding, len(resp.Data))
	copy(data, resp.Data)
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	embeddings := make([][]float32, len(data))
	for i, d := range data {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}

// CreateChatCompletion sends a (system, user) prompt pair and returns the
// generated text. Single attempt, no retry.
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.chatModel,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey              string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	ChatModel           string
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel, cfg.ChatModel)
	return &Client{
		embeddings:  adapter,
		completions: adapter,
		dimensions:  dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddings generates embeddings for a batch of texts, in input
// order. Batch output is element-wise equivalent to individual calls.
func (c *Client) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, text := range texts {
		if text == "" {
			return nil, ErrEmptyText
		}
	}

	embeddings, err := c.embeddings.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	for _, e := range embeddings {
		if len(e) != c.dimensions {
			return nil, ErrWrongDimensions
		}
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size the client expects.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// CreateChatCompletion forwards a prompt pair to the completion API.
func (c *Client) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", ErrEmptyText
	}
	return c.completions.CreateChatCompletion(ctx, systemPrompt, userPrompt)
}
