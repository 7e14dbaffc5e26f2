// ABOUTME: CLI command for the dominant-disruption ranker.
// ABOUTME: Names the single factor most worth fixing today, if any.
package main

import (
	"fmt"

	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var driverDay string

var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Name the day's dominant disruption",
	Long: `Rank today's candidate disruptions (sleep shortfall, schedule drift,
HRV suppression, elevated RHR, low proxy readiness) and name the one
most worth fixing. Prints nothing alarming when no candidate clears its
firing threshold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := driverDay
		if day == "" {
			day = window.Today()
		}

		cand, err := eng.PrimaryDriver(userID, day)
		if err != nil {
			return fmt.Errorf("failed to rank drivers: %w", err)
		}
		if cand == nil {
			color.Green("✓ No disruption cleared its firing threshold.")
			return nil
		}

		color.Red("▸ %s (severity %.0f)", cand.Kind, cand.Severity)
		fmt.Println(cand.Detail)
		fmt.Println(color.New(color.Faint).Sprint(cand.Recommendation))
		return nil
	},
}

func init() {
	driverCmd.Flags().StringVar(&driverDay, "day", "", "day to rank (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(driverCmd)
}
