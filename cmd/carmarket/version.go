package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the carmarket version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "carmarket v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Used-car market analysis built with Go and gonum/plot")
		},
	}
}
