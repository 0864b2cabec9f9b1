package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prepbuddy-ai/prepbuddy/internal/api/handlers"
	"github.com/prepbuddy-ai/prepbuddy/internal/config"
	"github.com/prepbuddy-ai/prepbuddy/internal/jobs"
	"github.com/prepbuddy-ai/prepbuddy/internal/server"
	"github.com/prepbuddy-ai/prepbuddy/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the study assistant API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-ingest", false, "Skip background ingestion on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Warn().Err(err).Msg("telemetry init failed, continuing without tracing")
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cmd, cfg)

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if cfg.StoreBackend == "pgvector" && !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	app, err := BuildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ingestProcessor := jobs.NewIngestWorker(app.Ingestion)
	var ingestWorker *jobs.Worker
	noIngest, _ := cmd.Flags().GetBool("no-ingest")
	if !noIngest && cfg.HasOpenAI() {
		ingestWorker = jobs.NewWorker(ingestProcessor, 10*time.Second)
		go ingestWorker.Start(ctx)
		log.Info().Msg("ingest worker started")
	}

	routerCfg := server.RouterConfig{
		TutorHandler:     handlers.NewTutorHandler(app.Tutor),
		QuestionsHandler: handlers.NewQuestionsHandler(app.Questions),
		IngestHandler:    handlers.NewIngestHandler(app.Ingestion, ingestProcessor.Rearm),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down...")

	if ingestWorker != nil {
		ingestWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

// applyPortFlag overrides the configured port only when the flag was set
// explicitly, so an explicit --port 8080 beats PREPBUDDY_PORT too.
func applyPortFlag(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("port") {
		return
	}
	if port, err := cmd.Flags().GetString("port"); err == nil && port != "" {
		cfg.Port = port
	}
}
