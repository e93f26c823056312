package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var versionShort bool

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the cegis version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cegis %s\n", color.New(color.FgYellow, color.Bold).Sprint(Version))
		return nil
	},
}
