// ABOUTME: CLI commands for logging a day's measurements and proxy score.
// ABOUTME: Re-logging a day replaces the whole row, last write wins.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conradlabs/coach/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logWeight      float64
	logWaist       float64
	logSleepStart  string
	logSleepEnd    string
	logSleepMin    int
	logAwake       int
	logHRV         float64
	logRHR         float64
	logCardioStart string
	logCardioEnd   string
	logZone1       int
	logZone2       int
	logZone3       int
	logLiftStart   string
	logLiftEnd     string
	logWorking     int
	logIdle        int
	logLiftDone    bool
	logLiftMissed  bool
	logStrain      float64
	logNotes       string
)

var logCmd = &cobra.Command{
	Use:     "log <day>",
	Aliases: []string{"l"},
	Short:   "Log a day's measurements",
	Long: `Log a day's measurements. Every field is optional: record what was
measured and nothing else. Times accept HH:MM or raw minutes since
midnight. Re-logging a day replaces that day's whole row.

Examples:
  coach log 2026-03-31 --weight 181.4 --waist 33.5
  coach log 2026-03-31 --sleep-start 21:50 --sleep-end 05:30 --awake 20
  coach log 2026-03-31 --hrv 62 --rhr 49
  coach log 2026-03-31 --cardio-start 06:00 --cardio-end 06:40 --z2 35
  coach log 2026-03-31 --lift-start 15:45 --lift-end 17:00 --working 62 --idle 13 --strain 71
  coach log 2026-03-31 --lift-missed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := args[0]
		log := &models.DailyLog{UserID: userID, Day: day}
		flags := cmd.Flags()

		if flags.Changed("weight") {
			log.MorningWeightLb = &logWeight
		}
		if flags.Changed("waist") {
			log.WaistIn = &logWaist
		}
		if flags.Changed("hrv") {
			log.HRVMs = &logHRV
		}
		if flags.Changed("rhr") {
			log.RestingHRBpm = &logRHR
		}
		if flags.Changed("sleep-min") {
			log.SleepMinutes = &logSleepMin
		}
		if flags.Changed("awake") {
			log.AwakeInBedMin = &logAwake
		}
		if flags.Changed("z1") {
			log.CardioZone1Min = &logZone1
		}
		if flags.Changed("z2") {
			log.CardioZone2Min = &logZone2
		}
		if flags.Changed("z3") {
			log.CardioZone3Min = &logZone3
		}
		if flags.Changed("working") {
			log.LiftWorkingMin = &logWorking
		}
		if flags.Changed("idle") {
			log.LiftIdleMin = &logIdle
		}
		if flags.Changed("strain") {
			log.SessionStrain = &logStrain
		}
		if flags.Changed("notes") {
			log.Notes = &logNotes
		}
		if flags.Changed("lift-done") || logLiftMissed {
			done := logLiftDone && !logLiftMissed
			log.LiftDone = &done
		}

		var err error
		if log.SleepStartMin, err = clockFlag(flags.Changed("sleep-start"), logSleepStart); err != nil {
			return err
		}
		if log.SleepEndMin, err = clockFlag(flags.Changed("sleep-end"), logSleepEnd); err != nil {
			return err
		}
		if log.CardioStartMin, err = clockFlag(flags.Changed("cardio-start"), logCardioStart); err != nil {
			return err
		}
		if log.CardioEndMin, err = clockFlag(flags.Changed("cardio-end"), logCardioEnd); err != nil {
			return err
		}
		if log.LiftStartMin, err = clockFlag(flags.Changed("lift-start"), logLiftStart); err != nil {
			return err
		}
		if log.LiftEndMin, err = clockFlag(flags.Changed("lift-end"), logLiftEnd); err != nil {
			return err
		}

		if err := eng.LogDay(log); err != nil {
			return fmt.Errorf("failed to log day: %w", err)
		}

		color.Green("✓ Logged %s", day)
		return nil
	},
}

var proxyCmd = &cobra.Command{
	Use:   "proxy <day> <score>",
	Short: "Log a day's androgen-proxy score",
	Long: `Log the externally derived androgen-proxy score for a day. The score
arrives finished from the upstream snapshot pipeline; coach only stores
and consumes it.

Examples:
  coach proxy 2026-03-31 57.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid score: %s", args[1])
		}
		if err := eng.LogProxy(&models.ProxyScore{UserID: userID, Day: args[0], Score: score}); err != nil {
			return fmt.Errorf("failed to log proxy score: %w", err)
		}
		color.Green("✓ Logged proxy %.1f for %s", score, args[0])
		return nil
	},
}

// parseClock accepts HH:MM or raw minutes since midnight.
func parseClock(s string) (int, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		mins, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hours < 0 || hours > 23 || mins < 0 || mins > 59 {
			return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
		}
		return hours*60 + mins, nil
	}
	mins, err := strconv.Atoi(s)
	if err != nil || mins < 0 || mins >= 1440 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM or minutes since midnight", s)
	}
	return mins, nil
}

func clockFlag(changed bool, value string) (*int, error) {
	if !changed {
		return nil, nil
	}
	m, err := parseClock(value)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func init() {
	logCmd.Flags().Float64Var(&logWeight, "weight", 0, "morning weight (lb)")
	logCmd.Flags().Float64Var(&logWaist, "waist", 0, "waist (inches)")
	logCmd.Flags().StringVar(&logSleepStart, "sleep-start", "", "sleep start (HH:MM)")
	logCmd.Flags().StringVar(&logSleepEnd, "sleep-end", "", "sleep end (HH:MM)")
	logCmd.Flags().IntVar(&logSleepMin, "sleep-min", 0, "minutes asleep")
	logCmd.Flags().IntVar(&logAwake, "awake", 0, "minutes awake in bed")
	logCmd.Flags().Float64Var(&logHRV, "hrv", 0, "morning HRV (ms)")
	logCmd.Flags().Float64Var(&logRHR, "rhr", 0, "resting heart rate (bpm)")
	logCmd.Flags().StringVar(&logCardioStart, "cardio-start", "", "cardio start (HH:MM)")
	logCmd.Flags().StringVar(&logCardioEnd, "cardio-end", "", "cardio end (HH:MM)")
	logCmd.Flags().IntVar(&logZone1, "z1", 0, "zone 1 minutes")
	logCmd.Flags().IntVar(&logZone2, "z2", 0, "zone 2 minutes")
	logCmd.Flags().IntVar(&logZone3, "z3", 0, "zone 3 minutes")
	logCmd.Flags().StringVar(&logLiftStart, "lift-start", "", "lift start (HH:MM)")
	logCmd.Flags().StringVar(&logLiftEnd, "lift-end", "", "lift end (HH:MM)")
	logCmd.Flags().IntVar(&logWorking, "working", 0, "working-set minutes")
	logCmd.Flags().IntVar(&logIdle, "idle", 0, "idle minutes in the gym")
	logCmd.Flags().BoolVar(&logLiftDone, "lift-done", false, "planned lift happened")
	logCmd.Flags().BoolVar(&logLiftMissed, "lift-missed", false, "planned lift was skipped")
	logCmd.Flags().Float64Var(&logStrain, "strain", 0, "session strain 0-100")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "free-text notes")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(proxyCmd)
}
