package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"github.com/prepbuddy-ai/prepbuddy/internal/config"
	"github.com/prepbuddy-ai/prepbuddy/internal/openai"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
	"github.com/prepbuddy-ai/prepbuddy/internal/sources"
	"github.com/prepbuddy-ai/prepbuddy/internal/store"
)

// App holds the wired services shared by all commands.
type App struct {
	Cfg       *config.Config
	Store     store.VectorStore
	Ingestion *service.IngestionService
	Retrieval *service.RetrievalService
	Tutor     *service.TutorService
	Questions *service.QuestionService
}

// BuildApp wires the full service graph from configuration. Without an
// OpenAI API key the app still starts: ingestion refuses to run and the
// tutor degrades to the fallback context.
func BuildApp(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	source, err := buildSource(ctx, cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	var embedder service.EmbeddingClient
	var completions service.CompletionClient
	if cfg.HasOpenAI() {
		client := openai.NewClientWithConfig(openai.Config{
			APIKey:    cfg.OpenAIAPIKey,
			ChatModel: cfg.ChatModel,
		})
		embedder = client
		completions = client
	} else {
		log.Warn().Msg("no OpenAI API key configured, running in degraded mode")
	}

	ingestCfg := service.IngestConfig{
		Chunking: service.ChunkConfig{
			MaxChars: cfg.ChunkMaxChars,
			MinChars: cfg.ChunkMinChars,
		},
		BatchSize:    cfg.BatchSize,
		EmbedTimeout: cfg.EmbedTimeout,
	}

	ingestion := service.NewIngestionService(source, embedder, st, ingestCfg)

	retrieval := service.NewRetrievalService(embedder, st, cfg.EmbedTimeout)

	tutor := service.NewTutorService(completions, retrieval, cfg.TopK, cfg.CompletionTimeout)
	questions := service.NewQuestionService(cfg.QuestionsDir, cfg.SampleQuestions)

	return &App{
		Cfg:       cfg,
		Store:     st,
		Ingestion: ingestion,
		Retrieval: retrieval,
		Tutor:     tutor,
		Questions: questions,
	}, nil
}

// Close releases the app's store resources.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (store.VectorStore, error) {
	switch cfg.StoreBackend {
	case "pgvector":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_BACKEND=pgvector requires DATABASE_URL")
		}
		st, err := store.NewPgvectorStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("using pgvector store")
		return st, nil
	case "chromem", "":
		st, err := store.NewChromemStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.DataDir).Msg("using chromem store")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected chromem or pgvector)", cfg.StoreBackend)
	}
}

func buildSource(ctx context.Context, cfg *config.Config) (sources.Source, error) {
	if cfg.HasS3() {
		src, err := sources.NewS3Source(ctx, sources.S3SourceConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 source: %w", err)
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("using S3 textbook source")
		return src, nil
	}
	return sources.NewLocalSource(cfg.TextbooksDir), nil
}

// runMigrations applies the pgvector schema migrations.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Info().Msg("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else {
		log.Info().Uint("version", version).Msg("migrations: database is up to date")
	}

	return nil
}
