// ABOUTME: CLI command for the daily coaching report.
// ABOUTME: Combines trend, calorie band, fuel notes, and disturbance.
package main

import (
	"fmt"

	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var reportDay string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the daily coaching report",
	Long: `Print the daily summary: weekly weight trend, suggested calorie
adjustment toward the lean-gain target band, fueling notes, and the
day's disturbance score.

Example:
  coach report --day 2026-03-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := reportDay
		if day == "" {
			day = window.Today()
		}

		r, err := eng.Report(userID, day)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("Report for %s\n", r.Day)
		if r.WeeklyTrendLb != nil {
			fmt.Printf("  trend: %+.2f lb/week\n", *r.WeeklyTrendLb)
		}
		if r.CalorieAdjustment != nil {
			switch {
			case *r.CalorieAdjustment > 0:
				color.Green("  calories: +%d kcal/day", *r.CalorieAdjustment)
			case *r.CalorieAdjustment < 0:
				color.Yellow("  calories: %d kcal/day", *r.CalorieAdjustment)
			default:
				fmt.Println("  calories: hold steady")
			}
		}
		if r.Disturbance != nil {
			fmt.Printf("  disturbance: %.1f\n", r.Disturbance.Score)
		}
		for _, n := range r.Notes {
			fmt.Println(faint.Sprintf("  %s", n))
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDay, "day", "", "day to report (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(reportCmd)
}
