package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/funkybooboo/regexr/engine"
)

func newCheckCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATTERN",
		Short: "Check that a pattern parses and list its groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := engine.Compile(args[0], 0)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			passColor.Fprintf(w, "ok   %d capture groups\n", re.NumSubexp())
			if re.NumSubexp() == 0 {
				return nil
			}
			rows := make([]table.Row, 0, re.NumSubexp())
			for i, name := range re.SubexpNames()[1:] {
				rows = append(rows, table.Row{i + 1, name})
			}
			fmt.Fprintln(w, groupTable(table.Row{"#", "Name"}, rows))
			return nil
		},
	}
}
