package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepbuddy-ai/prepbuddy/internal/config"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the study assistant a question",
		Long:  "Answer a question using the indexed textbook content, with citations",
		Args:  cobra.MinimumNArgs(1),
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

			resp, err := app.Tutor.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			printTutorResponse(resp)
			return nil
		},
	}
}

// CheckCmd returns the check command
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check an answer to a practice question",
		Long:  "Evaluate an answer against the indexed textbook content and get feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			question, _ := cmd.Flags().GetString("question")
			answer, _ := cmd.Flags().GetString("answer")

			app, err := BuildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Tutor.CheckAnswer(ctx, question, answer)
			if err != nil {
				return err
			}

			printTutorResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringP("question", "q", "", "The practice question")
	cmd.Flags().StringP("answer", "a", "", "Your answer to the question")
	cmd.MarkFlagRequired("question")
	cmd.MarkFlagRequired("answer")

	return cmd
}

func printTutorResponse(resp *service.TutorResponse) {
	fmt.Println(resp.Text)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range resp.Sources {
			fmt.Printf("  - %s\n", s)
		}
	}
}
