package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List all biases",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := cmd.Flags().GetString("category")
		if err != nil {
			return err
		}
		if category != "" && !catalog.Category(category).IsValid() {
			return fmt.Errorf("unknown category %q", category)
		}

		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		biases, err := svc.Catalog(ctx)
		if err != nil {
			return err
		}
		list, err := svc.Progress(ctx)
		if err != nil {
			return err
		}
		byID := progress.ByID(list)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-32s  %-32s  %-16s  %s\n", "ID", "Title", "Category", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, b := range biases {
			if category != "" && string(b.Category) != category {
				continue
			}
			status := "new"
			if p, ok := byID[b.ID]; ok && p.Viewed() {
				status = fmt.Sprintf("viewed %d×", p.ViewCount)
				if p.Mastered {
					status = "mastered"
				}
			}
			title := truncate(b.Title, 32)
			if b.Source == catalog.SourceUser {
				title = truncate(b.Title+" *", 32)
			}
			fmt.Fprintf(out, "%-32s  %-32s  %-16s  %s\n", truncate(b.ID, 32), title, b.Category.Label(), status)
		}

		rec, ok := catalog.Bias{}, false
		if category == "" {
			rec, ok, err = svc.Recommend(ctx)
			if err != nil {
				return err
			}
		} else {
			rec, ok = firstUnviewed(biases, byID, catalog.Category(category))
		}
		if ok {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Try next: %s (debias view %s)", rec.Title, rec.ID)))
		}
		return nil
	},
}

// firstUnviewed returns the first bias of category c with no progress record.
func firstUnviewed(biases []catalog.Bias, byID map[string]progress.BiasProgress, c catalog.Category) (catalog.Bias, bool) {
	for _, b := range biases {
		if _, seen := byID[b.ID]; !seen && b.Category == c {
			return b, true
		}
	}
	return catalog.Bias{}, false
}

func init() {
	names := make([]string, 0, len(catalog.AllCategories()))
	for _, c := range catalog.AllCategories() {
		names = append(names, string(c))
	}
	catalogCmd.Flags().String("category", "", "Only list one category: "+strings.Join(names, ", "))
}
