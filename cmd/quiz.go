package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/app"
	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a scenario quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		n, _ := cmd.Flags().GetInt("questions")
		sess, err := svc.StartQuiz(ctx, n)
		if err != nil {
			return fmt.Errorf("start quiz: %w", err)
		}
		biases, err := svc.Catalog(ctx)
		if err != nil {
			return err
		}

		done, runErr := app.Run(ctx, sess, biases)
		if done.Completed() {
			if _, err := svc.SaveQuiz(ctx, done); err != nil {
				return fmt.Errorf("save quiz: %w", err)
			}
		}
		if runErr != nil {
			return fmt.Errorf("run quiz: %w", runErr)
		}

		out := cmd.OutOrStdout()
		if done.Abandoned {
			fmt.Fprintf(out, "Quiz stopped after %d of %d questions.\n", len(done.Attempts), done.TotalQuestions)
			return nil
		}
		fb := quiz.ScoreFeedback(done.Score, done.TotalQuestions)
		fmt.Fprintf(out, "%s %s %d/%d. %s\n",
			fb.Emoji, theme.Title.Render(fb.Title), done.Score, done.TotalQuestions, fb.Message)
		return nil
	},
}

func init() {
	quizCmd.Flags().IntP("questions", "n", 0, "Number of questions (0 = configured default)")
}
