package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/ui/components"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

var viewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a bias and record the view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		v, err := svc.View(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, components.BiasCard(v.Bias, v.Progress, svc.Now(), cardWidth))
		if !v.Counted {
			fmt.Fprintln(out, theme.Hint.Render("Viewed moments ago; not counted again."))
		}
		return nil
	},
}

var masterCmd = &cobra.Command{
	Use:   "master <id>",
	Short: "Toggle whether a bias is mastered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		b, _, err := svc.Bias(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		p, err := svc.ToggleMastered(cmd.Context(), b.ID)
		if err != nil {
			return err
		}
		if p.Mastered {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Correct.Render("Mastered: ")+b.Title)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Muted.Render("No longer mastered: ")+b.Title)
		}
		return nil
	},
}
