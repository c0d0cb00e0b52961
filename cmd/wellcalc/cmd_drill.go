package main

import (
	"errors"
	"fmt"

	"Wellbore/internal/calc/drillstring"
	"Wellbore/internal/format"

	"github.com/spf13/cobra"
)

func newDrillCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drill",
		Short: "Size the drill string for each section",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tables, err := flags.load()
			if err != nil {
				return err
			}
			if len(in.Values) == 0 {
				return errors.New("project has no drill-string values")
			}
			resp, err := drillstring.Run(cmd.Context(), tables, drillstring.Request{Casing: in.Casing, Values: in.Values})
			if err != nil {
				return explain(err)
			}

			if resp.Casing != nil {
				if err := printCasing(cmd, *resp.Casing, flags.mode()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Drill(resp.Drill, flags.mode()))
			return nil
		},
	}
}
