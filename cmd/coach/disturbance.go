// ABOUTME: CLI command for the fused daily disturbance score.
// ABOUTME: Prints score, component contributions, slope, and reasons.
package main

import (
	"fmt"

	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var disturbanceDay string

var disturbanceCmd = &cobra.Command{
	Use:     "disturbance",
	Aliases: []string{"d"},
	Short:   "Show the fused disturbance score for a day",
	Long: `Show the fused 0-100 disturbance score for a day. 50 is neutral; the
score combines HRV, resting heart rate, sleep, androgen proxy, and
bedtime drift deltas against your personal baseline.

Examples:
  coach disturbance
  coach disturbance --day 2026-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := disturbanceDay
		if day == "" {
			day = window.Today()
		}

		d, err := eng.Disturbance(userID, day)
		if err != nil {
			return fmt.Errorf("failed to compute disturbance: %w", err)
		}

		scoreColor := color.New(color.FgGreen)
		switch {
		case d.Score >= 70:
			scoreColor = color.New(color.FgRed)
		case d.Score >= 60:
			scoreColor = color.New(color.FgYellow)
		}
		fmt.Printf("%s  disturbance %s", day, scoreColor.Sprintf("%.1f", d.Score))
		if d.SlopePerWeek != nil {
			fmt.Printf("  (%+.1f/week)", *d.SlopePerWeek)
		}
		fmt.Println()

		fmt.Printf("  hrv %+.2f  rhr %+.2f  sleep %+.2f  proxy %+.2f  drift %+.2f\n",
			d.Components.HRV, d.Components.RHR, d.Components.Sleep,
			d.Components.Proxy, d.Components.Drift)

		if d.CortisolFlag {
			color.Red("  ! cortisol-aligned suppression: 3+ signals firing together")
		}
		faint := color.New(color.Faint)
		for _, r := range d.Reasons {
			fmt.Println(faint.Sprintf("  - %s", r))
		}
		return nil
	},
}

func init() {
	disturbanceCmd.Flags().StringVar(&disturbanceDay, "day", "", "day (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(disturbanceCmd)
}
