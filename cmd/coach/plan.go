// ABOUTME: CLI commands for viewing and editing the daily schedule plan.
// ABOUTME: Clock values accept HH:MM or raw minutes since midnight.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	planBed       string
	planWake      string
	planCardio    []string
	planLift      []string
	planTolerance int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "View or edit the daily schedule plan",
	Long: `The plan is the daily template the stability and disturbance
scorers measure against. Times accept HH:MM or raw minutes since
midnight.

Examples:
  coach plan show
  coach plan set --bed 21:45 --wake 05:30
  coach plan set --cardio 06:00,06:40 --lift 15:45,17:00`,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(userID)
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}
		fmt.Printf("bed     %s\n", formatClock(p.BedMin))
		fmt.Printf("wake    %s  (%d min planned sleep)\n", formatClock(p.WakeMin), p.PlannedSleepMin())
		fmt.Printf("cardio  %s-%s\n", formatClock(p.CardioStartMin), formatClock(p.CardioEndMin))
		fmt.Printf("lift    %s-%s\n", formatClock(p.LiftStartMin), formatClock(p.LiftEndMin))
		fmt.Println(color.New(color.Faint).Sprintf("late-night tolerance: %d min", p.BedtimeLateToleranceMin))
		return nil
	},
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update plan fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(userID)
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}

		if cmd.Flags().Changed("bed") {
			if p.BedMin, err = parseClock(planBed); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("wake") {
			if p.WakeMin, err = parseClock(planWake); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("cardio") {
			if p.CardioStartMin, p.CardioEndMin, err = parseSpan(planCardio); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("lift") {
			if p.LiftStartMin, p.LiftEndMin, err = parseSpan(planLift); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("tolerance") {
			p.BedtimeLateToleranceMin = planTolerance
		}

		if err := repo.SavePlan(userID, p); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		color.Green("✓ Plan updated")
		return nil
	},
}

func parseSpan(parts []string) (int, int, error) {
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected start,end but got %d values", len(parts))
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

func init() {
	planSetCmd.Flags().StringVar(&planBed, "bed", "", "planned lights-out (HH:MM)")
	planSetCmd.Flags().StringVar(&planWake, "wake", "", "planned wake (HH:MM)")
	planSetCmd.Flags().StringSliceVar(&planCardio, "cardio", nil, "planned cardio span (start,end)")
	planSetCmd.Flags().StringSliceVar(&planLift, "lift", nil, "planned lift span (start,end)")
	planSetCmd.Flags().IntVar(&planTolerance, "tolerance", 0, "late-night tolerance in minutes")
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planSetCmd)
	rootCmd.AddCommand(planCmd)
}
