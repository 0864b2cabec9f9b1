package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prepbuddy-ai/prepbuddy/internal/cli"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("PREPBUDDY_DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	rootCmd := &cobra.Command{
		Use:   "prepbuddyd",
		Short: "PrepBuddy daemon and CLI",
		Long:  "PrepBuddy daemon for running the study assistant API server and managing the textbook index",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ClearCmd())
	rootCmd.AddCommand(cli.AskCmd())
	rootCmd.AddCommand(cli.CheckCmd())
	rootCmd.AddCommand(cli.QuestionsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
