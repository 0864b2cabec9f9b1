package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Document locations
	TextbooksDir    string `envconfig:"TEXTBOOKS_DIR" default:"data/textbooks"`
	QuestionsDir    string `envconfig:"QUESTIONS_DIR" default:"data/questions"`
	SampleQuestions string `envconfig:"SAMPLE_QUESTIONS" default:"sample_questions.txt"`

	// Vector store
	StoreBackend string `envconfig:"STORE_BACKEND" default:"chromem"`
	DataDir      string `envconfig:"DATA_DIR" default:"db"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	// OpenAI
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	ChatModel    string `envconfig:"CHAT_MODEL" default:"gpt-3.5-turbo"`

	// Pipeline tuning
	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"1200"`
	ChunkMinChars int `envconfig:"CHUNK_MIN_CHARS" default:"40"`
	BatchSize     int `envconfig:"BATCH_SIZE" default:"8"`
	TopK          int `envconfig:"TOP_K" default:"3"`

	// External call budgets
	EmbedTimeout      time.Duration `envconfig:"EMBED_TIMEOUT" default:"30s"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`

	// Optional S3 textbook source
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("PREPBUDDY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != "" && c.OpenAIAPIKey != "your_openai_api_key_here"
}

func (c *Config) HasS3() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
