package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/service"
	"github.com/debiasdaily/debias/internal/spacedrep"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var reviewCmd = &cobra.Command{
	Use:   "review [<id> <quality>]",
	Short: "List due reviews or grade one",
	Long: "Without arguments, lists the biases due for review.\n" +
		"With an id and a quality (forgot, hard, good, easy, perfect or 0-5),\n" +
		"records the review and schedules the next one.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <id> <quality>, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 2 {
			q, err := spacedrep.ParseQuality(args[1])
			if err != nil {
				return err
			}
			p, err := svc.Review(ctx, args[0], q)
			if err != nil {
				return err
			}
			verdict := theme.Correct.Render("Nice.")
			if !q.Passed() {
				verdict = theme.Incorrect.Render("Back to the start.")
			}
			fmt.Fprintf(out, "%s Next review in %d %s (%s).\n",
				verdict, p.Interval, plural(p.Interval, "day", "days"),
				spacedrep.IntervalLevelName(spacedrep.IntervalLevel(p.Interval)))
			return nil
		}

		due, err := svc.Due(ctx)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Fprintln(out, "Nothing due. Come back later.")
		} else {
			fmt.Fprintln(out, theme.Title.Render("Due for review"))
			printReviewTable(out, due, svc.Now())
			fmt.Fprintln(out, theme.Hint.Render("Grade with: debias review <id> <forgot|hard|good|easy|perfect>"))
		}

		upcoming, _ := cmd.Flags().GetBool("upcoming")
		if !upcoming {
			return nil
		}
		limit, _ := cmd.Flags().GetInt("limit")
		next, err := svc.Upcoming(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Upcoming"))
		if len(next) == 0 {
			fmt.Fprintln(out, "No reviews scheduled.")
			return nil
		}
		printReviewTable(out, next, svc.Now())
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("upcoming", false, "Also list reviews that are not due yet")
	reviewCmd.Flags().Int("limit", 0, "Maximum number of upcoming reviews (0 = configured default)")
}

func printReviewTable(w io.Writer, items []service.ReviewItem, now time.Time) {
	fmt.Fprintf(w, "%-32s  %-12s  %-8s  %s\n", "ID", "Level", "Status", "When")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, it := range items {
		p := it.Progress
		fmt.Fprintf(w, "%-32s  %-12s  %-8s  %s\n",
			truncate(it.Bias.ID, 32),
			spacedrep.IntervalLevelName(spacedrep.IntervalLevel(p.Interval)),
			spacedrep.Status(p, now),
			spacedrep.DueText(p, now),
		)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
