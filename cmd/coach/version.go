// ABOUTME: CLI command printing the build version.
// ABOUTME: The version string is set via ldflags at release time.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the coach version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("coach", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
