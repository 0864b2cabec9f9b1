package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepbuddy-ai/prepbuddy/internal/config"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// QuestionsCmd returns the questions command
func QuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the practice questions",
		Long:  "List every practice question mined from the question bank, or pick one at random",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			questions := service.NewQuestionService(cfg.QuestionsDir, cfg.SampleQuestions)

			random, _ := cmd.Flags().GetBool("random")
			if random {
				q := questions.Random(ctx)
				fmt.Printf("%s\n\n[%s]\n", q.Text, q.Source)
				return nil
			}

			for i, q := range questions.Load(ctx) {
				fmt.Printf("%d. %s\n   [%s]\n\n", i+1, q.Text, q.Source)
			}
			return nil
		},
	}

	cmd.Flags().Bool("random", false, "Print one random question")

	return cmd
}
