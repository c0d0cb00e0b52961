package main

import (
	"fmt"
	"os"

	"Wellbore/internal/calc/report"

	"github.com/spf13/cobra"
)

func newReportCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the sizing results as a PDF report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tables, err := flags.load()
			if err != nil {
				return err
			}
			doc, err := report.Build(cmd.Context(), tables, in)
			if err != nil {
				return explain(err)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.Render(f, doc); err != nil {
				f.Close()
				return fmt.Errorf("render report: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "report.pdf", "Output PDF path")
	return cmd
}
