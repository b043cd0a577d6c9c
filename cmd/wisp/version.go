package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wisp/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the wisp runtime version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "wisp %s\n", version.Version)
		return nil
	},
}
