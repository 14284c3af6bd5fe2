package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/ui/components"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		o, err := svc.Overview(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, theme.Title.Render("Progress"))
		fmt.Fprintln(out, components.NewProgressBar(
			fmt.Sprintf("Viewed %3d/%d", o.Viewed, o.CatalogSize),
			components.Ratio(o.Viewed, o.CatalogSize), true, cardWidth).View())
		fmt.Fprintf(out, "Mastered %d · Streak %d days (best %d, %d days total)\n",
			o.Mastered, o.Streak.Current, o.Streak.Longest, o.Streak.TotalDays)
		fmt.Fprintln(out)

		fmt.Fprintln(out, theme.Title.Render("Categories"))
		biases, err := svc.Catalog(ctx)
		if err != nil {
			return err
		}
		sizes := make(map[catalog.Category]int)
		for _, b := range biases {
			sizes[b.Category]++
		}
		for _, c := range catalog.AllCategories() {
			if sizes[c] == 0 {
				continue
			}
			label := fmt.Sprintf("%-16s %2d/%-2d", c.Label(), o.Distribution[c], sizes[c])
			fmt.Fprintln(out, components.NewProgressBar(label, components.Ratio(o.Distribution[c], sizes[c]), false, cardWidth).View())
		}
		fmt.Fprintln(out)

		r := o.Review
		fmt.Fprintln(out, theme.Title.Render("Reviews"))
		fmt.Fprintf(out, "Tracked %d · Due now %d · Due today %d · This week %d\n",
			r.Tracked, r.DueNow, r.DueToday, r.DueThisWeek)
		fmt.Fprintf(out, "Reviewed %d · Average interval %d days · Mastery %d%%\n",
			r.TotalReviewed, r.AverageInterval, r.MasteryProgress)
		fmt.Fprintln(out)

		q := o.Quiz
		fmt.Fprintln(out, theme.Title.Render("Quizzes"))
		if q.TotalQuizzesTaken == 0 {
			fmt.Fprintln(out, "No quizzes yet. Try `debias quiz`.")
			return nil
		}
		fmt.Fprintf(out, "Taken %d · Answered %d · Average %d%% · Best %d%% · Streak %d days\n",
			q.TotalQuizzesTaken, q.TotalQuestionsAnswered, q.AverageScore, q.BestScore, q.CurrentStreak)
		if weak := quiz.WeakestBiases(q, 3); len(weak) > 0 {
			idx := catalog.Index(biases)
			fmt.Fprintln(out, theme.Label.Render("Needs work"))
			for _, id := range weak {
				title := id
				if b, ok := idx[id]; ok {
					title = b.Title
				}
				acc := q.BiasAccuracy[id]
				fmt.Fprintf(out, "  • %s (%d/%d)\n", title, acc.Correct, acc.Total)
			}
		}
		return nil
	},
}
