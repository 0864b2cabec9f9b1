package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepbuddy-ai/prepbuddy/internal/config"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index the textbook PDFs into the vector store",
		Long:  "Extract, chunk and embed every textbook PDF, then index the chunks. A populated store is left untouched; run clear first to rebuild.",
		RunE:  runIngest,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

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

	result, err := app.Ingestion.Ingest(ctx)
	if err != nil {
		return err
	}

	if result.AlreadyIngested {
		fmt.Println("store already populated, nothing to do (run 'clear' to rebuild)")
		return nil
	}

	fmt.Printf("documents seen:     %d\n", result.DocumentsSeen)
	fmt.Printf("documents skipped:  %d\n", result.DocumentsSkipped)
	fmt.Printf("chunks extracted:   %d\n", result.ChunksExtracted)
	fmt.Printf("chunks indexed:     %d\n", result.ChunksIndexed)
	fmt.Printf("chunks skipped:     %d\n", result.ChunksSkipped)
	return nil
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the index status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app, err := BuildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			status, err := app.Ingestion.Status(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("stored chunks:   %d\n", status.StoredChunks)
			fmt.Printf("discovered PDFs: %d\n", status.DiscoveredPDFs)
			return nil
		},
	}
}

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the vector store",
		Long:  "Delete every indexed chunk so the next ingest run rebuilds the index from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app, err := BuildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Ingestion.Clear(ctx); err != nil {
				return err
			}

			fmt.Println("vector store cleared")
			return nil
		},
	}
}
