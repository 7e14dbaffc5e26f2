// ABOUTME: CLI command for per-day regimen color classification.
// ABOUTME: Prints a mark per day with glyph, confidence, and reasons.
package main

import (
	"fmt"
	"strings"

	"github.com/conradlabs/coach/internal/regimen"
	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	regimenFrom string
	regimenTo   string
)

var regimenCmd = &cobra.Command{
	Use:     "regimen",
	Aliases: []string{"r"},
	Short:   "Classify days into regimen colors",
	Long: `Classify each day in a range into one of LEAN_GAIN, CUT, RECOMP,
DELOAD, SUPPRESSED, UNKNOWN. Classification uses weight/waist trends and
baseline ratios with hysteresis, so a single odd day does not flip the
color.

Examples:
  coach regimen                      # last 7 days
  coach regimen --from 2026-03-01 --to 2026-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := regimenTo
		if to == "" {
			to = window.Today()
		}
		from := regimenFrom
		if from == "" {
			from = window.AddDays(to, -6)
		}

		marks, err := eng.RegimenRange(userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to classify range: %w", err)
		}

		faint := color.New(color.Faint)
		for _, m := range marks {
			fmt.Printf("%s  %-2s %s %s\n",
				m.Day, m.Glyph, colorFor(m.Color).Sprintf("%-10s", m.Color), faint.Sprintf("%d%%", m.Confidence))
			for _, r := range m.Reasons {
				fmt.Println(faint.Sprintf("    %s", r))
			}
			if len(m.Missing) > 0 {
				fmt.Println(faint.Sprintf("    missing: %s", strings.Join(m.Missing, ", ")))
			}
		}
		return nil
	},
}

func colorFor(c regimen.Color) *color.Color {
	switch c {
	case regimen.LeanGain:
		return color.New(color.FgGreen)
	case regimen.Cut:
		return color.New(color.FgCyan)
	case regimen.Recomp:
		return color.New(color.FgBlue)
	case regimen.Deload:
		return color.New(color.FgYellow)
	case regimen.Suppressed:
		return color.New(color.FgRed)
	default:
		return color.New(color.Faint)
	}
}

func init() {
	regimenCmd.Flags().StringVar(&regimenFrom, "from", "", "first day (YYYY-MM-DD)")
	regimenCmd.Flags().StringVar(&regimenTo, "to", "", "last day (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(regimenCmd)
}
