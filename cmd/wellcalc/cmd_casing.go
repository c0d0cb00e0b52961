package main

import (
	"fmt"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/format"

	"github.com/spf13/cobra"
)

func newCasingCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "casing",
		Short: "Select casing and bit sizes and evaluate the critical depth",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tables, err := flags.load()
			if err != nil {
				return err
			}
			res, err := casing.Run(tables, in.Casing)
			if err != nil {
				return explain(err)
			}
			return printCasing(cmd, res, flags.mode())
		},
	}
}

func printCasing(cmd *cobra.Command, res casing.Result, m format.Mode) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run: %s\n", res.RunID)
	fmt.Fprintln(out, format.Casing(res, m))
	if h := res.HAD(); h != nil {
		fmt.Fprintf(out, "\nCritical depth for %s\n", format.Num(h.TargetDepth))
		fmt.Fprintln(out, format.HAD(h, m))
	}
	if res.State == casing.StateFailed {
		return fmt.Errorf("casing chain stopped: %s", res.Reason)
	}
	return nil
}
