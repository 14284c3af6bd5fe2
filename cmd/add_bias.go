package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/catalog"
)

var addBiasCmd = &cobra.Command{
	Use:   "add-bias",
	Short: "Add your own bias to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		id, _ := f.GetString("id")
		title, _ := f.GetString("title")
		category, _ := f.GetString("category")
		summary, _ := f.GetString("summary")
		why, _ := f.GetString("why")
		counter, _ := f.GetString("counter")

		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		b, err := svc.AddUserBias(cmd.Context(), catalog.Bias{
			ID:       id,
			Title:    title,
			Category: catalog.Category(category),
			Summary:  summary,
			Why:      why,
			Counter:  counter,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q as %s.\n", b.Title, b.ID)
		return nil
	},
}

var removeBiasCmd = &cobra.Command{
	Use:   "remove-bias <id>",
	Short: "Remove one of your own biases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		if err := svc.RemoveUserBias(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
		return nil
	},
}

func init() {
	f := addBiasCmd.Flags()
	f.String("id", "", "Bias id (default: derived from the title)")
	f.String("title", "", "Title, 3-100 characters")
	f.String("category", "", "One of decision, memory, social, perception, misc")
	f.String("summary", "", "What the bias is, 10-500 characters")
	f.String("why", "", "Why it happens")
	f.String("counter", "", "How to counter it")
	_ = addBiasCmd.MarkFlagRequired("title")
	_ = addBiasCmd.MarkFlagRequired("category")
	_ = addBiasCmd.MarkFlagRequired("summary")
}
