// Package main provides the entry point for the src2html CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamsoliev/src2html/cmd/src2html/commands"
	"github.com/adamsoliev/src2html/pkg/version"
)

func main() {
	rootCmd := commands.NewConvertCommand()
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "src2html %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
