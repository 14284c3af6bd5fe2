package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export learner data as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := svc.Export(cmd.Context(), w); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if len(args) == 1 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", args[0])
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import learner data exported by `debias export`",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()

		svc, release, err := openService(cmd)
		if err != nil {
			return err
		}
		defer release()

		if err := svc.Import(cmd.Context(), f, replace); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("replace", false, "Replace all learner data instead of merging")
}
