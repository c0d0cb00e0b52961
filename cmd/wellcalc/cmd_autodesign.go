package main

import (
	"errors"
	"fmt"

	"Wellbore/internal/calc/autodesign"
	"Wellbore/internal/format"

	"github.com/spf13/cobra"
)

func newAutodesignCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "autodesign",
		Short: "Try every metal type on the critical section and recommend one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tables, err := flags.load()
			if err != nil {
				return err
			}
			res, err := autodesign.Casing(cmd.Context(), tables, in.Casing)
			if err != nil && !errors.Is(err, autodesign.ErrNoCandidate) {
				return explain(err)
			}

			tb := format.NewTable(flags.mode())
			tb.Header("Metal Type", "Reachable", "Top HAD", "Total Length", "Weight", "Reason")
			for _, o := range res.Options {
				tb.Row(string(o.MetalType), o.Reachable, format.Num(o.TopHAD), format.Num(o.TotalLength),
					format.Num(o.Weight), o.Reason)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tb.String())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRecommended: %s\n", res.Recommended)
			return printCasing(cmd, *res.Chain, flags.mode())
		},
	}
}
