package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold)
		for _, name := range ProblemNames() {
			p := Problems[name]
			expect := "sat"
			if !p.Sat {
				expect = "unsat"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-5s  %s\n", bold.Sprintf("%-24s", p.Name), expect, p.Description)
		}
		return nil
	},
}
