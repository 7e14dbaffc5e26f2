// ABOUTME: CLI commands for tagged context episodes (start/adjust/status/conclude).
// ABOUTME: Status runs the phase classifier over the tagged window.
package main

import (
	"fmt"

	"github.com/conradlabs/coach/internal/window"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var contextDay string

var contextCmd = &cobra.Command{
	Use:     "context",
	Aliases: []string{"ctx"},
	Short:   "Track tagged context episodes",
	Long: `Track a named ongoing context (a supplement trial, a schedule change,
a stress period) as an episode. Tag the days it was active, mark
protocol adjustments, and check status to see which phase the context
is in: novelty, adaptation, disruption, regulation, or insufficient data.

Examples:
  coach context start creatine
  coach context tag creatine
  coach context adjust creatine
  coach context status creatine
  coach context conclude creatine`,
}

var contextTagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "Mark a day as covered by an open episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := contextOr(window.Today())
		if err := eng.Lens().TagDay(userID, args[0], day); err != nil {
			return fmt.Errorf("failed to tag day: %w", err)
		}
		color.Green("✓ Tagged %s on %s", args[0], day)
		return nil
	},
}

var contextStartCmd = &cobra.Command{
	Use:   "start <tag>",
	Short: "Open a new episode for a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := eng.Lens().StartEpisode(userID, args[0], contextOr(window.Today()))
		if err != nil {
			return fmt.Errorf("failed to start episode: %w", err)
		}
		color.Green("✓ Started %s episode on %s", ep.Tag, ep.StartDay)
		return nil
	},
}

var contextAdjustCmd = &cobra.Command{
	Use:   "adjust <tag>",
	Short: "Mark a protocol adjustment for an open episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := contextOr(window.Today())
		if err := eng.Lens().MarkAdjustment(userID, args[0], day); err != nil {
			return fmt.Errorf("failed to mark adjustment: %w", err)
		}
		color.Green("✓ Marked %s adjustment on %s", args[0], day)
		return nil
	},
}

var contextStatusCmd = &cobra.Command{
	Use:   "status <tag>",
	Short: "Classify the phase of a tagged context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := eng.ContextPhase(userID, args[0], contextOr(window.Today()))
		if err != nil {
			return fmt.Errorf("failed to classify context: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s as of %s\n", status.Tag, status.Day)
		if status.Episode != nil {
			fmt.Println(faint.Sprintf("  episode open since %s", status.Episode.StartDay))
		}
		fmt.Printf("  phase: %s %s\n",
			color.New(color.Bold).Sprint(status.Phase.Phase),
			faint.Sprintf("(%d%% confidence, %d tagged days / 21)", status.Phase.Confidence, status.TaggedDays21))
		for _, r := range status.Phase.Reasons {
			fmt.Println(faint.Sprintf("  %s", r))
		}
		if status.Disturbance != nil {
			fmt.Printf("  disturbance: %.1f\n", status.Disturbance.Score)
		}
		return nil
	},
}

var contextConcludeCmd = &cobra.Command{
	Use:   "conclude <tag>",
	Short: "Close an open episode and archive its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, archive, err := eng.Lens().ConcludeEpisode(userID, args[0], contextOr(window.Today()))
		if err != nil {
			return fmt.Errorf("failed to conclude episode: %w", err)
		}

		faint := color.New(color.Faint)
		color.Green("✓ Concluded %s (%s → %s, %d days, %d tagged)",
			summary.Tag, summary.StartDay, summary.EndDay, summary.DurationDays, summary.TaggedDays)
		if summary.DisturbanceChange != nil {
			fmt.Println(faint.Sprintf("  disturbance change: %+.1f", *summary.DisturbanceChange))
		}
		fmt.Println(faint.Sprintf("  %s", summary.Interpretation))
		fmt.Println(faint.Sprintf("  archived as %s", archive.ID))
		return nil
	},
}

func contextOr(fallback string) string {
	if contextDay != "" {
		return contextDay
	}
	return fallback
}

func init() {
	contextCmd.PersistentFlags().StringVar(&contextDay, "day", "", "effective day (YYYY-MM-DD), defaults to today")
	contextCmd.AddCommand(contextStartCmd)
	contextCmd.AddCommand(contextTagCmd)
	contextCmd.AddCommand(contextAdjustCmd)
	contextCmd.AddCommand(contextStatusCmd)
	contextCmd.AddCommand(contextConcludeCmd)
	rootCmd.AddCommand(contextCmd)
}
