package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/ui/components"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's bias",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd)
	},
}

// runToday shows the daily pick and counts it as viewed.
func runToday(cmd *cobra.Command) error {
	svc, release, err := openService(cmd)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	today, err := svc.Today(ctx)
	if err != nil {
		return fmt.Errorf("pick today's bias: %w", err)
	}
	viewed, err := svc.View(ctx, today.Bias.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	streak := fmt.Sprintf("%d-day streak", today.Streak.Current)
	fmt.Fprintln(out, theme.Title.Render("Today")+"  "+theme.Muted.Render(today.DateKey+" · "+streak))
	fmt.Fprintln(out, components.BiasCard(viewed.Bias, viewed.Progress, svc.Now(), cardWidth))

	due, err := svc.Due(ctx)
	if err != nil {
		return err
	}
	if n := len(due); n > 0 {
		fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("%d %s due for review. Run `debias review`.", n, plural(n, "bias", "biases"))))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
