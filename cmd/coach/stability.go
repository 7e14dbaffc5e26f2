// ABOUTME: CLI command for schedule stability scores per domain.
// ABOUTME: Shows alignment, consistency, recovery, and outcome sub-scores.
package main

import (
	"fmt"
	"strings"

	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var stabilityDay string

var stabilityCmd = &cobra.Command{
	Use:   "stability <sleep|cardio|lift>",
	Short: "Score schedule stability for one domain",
	Long: `Score how stable a schedule domain is on a given day. Alignment
measures today's start against plan, consistency the spread of the last
seven starts, and recovery how the schedule rebounded after its most
recent disruption. Outcome sub-scores depend on the domain.

Examples:
  coach stability sleep
  coach stability lift --day 2026-03-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := stabilityDay
		if day == "" {
			day = window.Today()
		}

		s, err := eng.Stability(userID, args[0], day)
		if err != nil {
			return fmt.Errorf("failed to score stability: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s stability for %s\n", s.Domain, s.Day)
		printScore("alignment", s.Alignment)
		printScore("consistency", s.Consistency)
		printScore("recovery", s.Recovery.Score)
		if s.Recovery.EventFound {
			fmt.Println(faint.Sprintf("  last disruption %s (%s confidence)", s.Recovery.EventDay, s.Recovery.Confidence))
		}
		for _, r := range s.Recovery.Reasons {
			fmt.Println(faint.Sprintf("  %s", r))
		}
		printScore("adequacy", s.Outcome.Adequacy)
		printScore("efficiency", s.Outcome.Efficiency)
		printScore("continuity", s.Outcome.Continuity)
		missing := append(append([]string{}, s.Missing...), s.Outcome.Missing...)
		if len(missing) > 0 {
			fmt.Println(faint.Sprintf("  missing: %s", strings.Join(missing, ", ")))
		}
		return nil
	},
}

func printScore(name string, score *float64) {
	if score == nil {
		fmt.Printf("  %-12s %s\n", name, color.New(color.Faint).Sprint("--"))
		return
	}
	c := color.New(color.FgGreen)
	switch {
	case *score < 50:
		c = color.New(color.FgRed)
	case *score < 75:
		c = color.New(color.FgYellow)
	}
	fmt.Printf("  %-12s %s\n", name, c.Sprintf("%.0f", *score))
}

func init() {
	stabilityCmd.Flags().StringVar(&stabilityDay, "day", "", "day to score (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(stabilityCmd)
}
