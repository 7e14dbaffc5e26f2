// ABOUTME: Domain configs and outcome scoring for sleep, cardio, lift.
// ABOUTME: Outcome sub-scores are nil when inputs are absent, never 0 or 100.
package regulate

import (
	"github.com/conradlabs/coach/internal/window"
)

// Lift execution thresholds used by the engine's event predicate: a
// session with a working-minutes ratio under WorkingRatioFloor or an
// idle ratio over IdleRatioCeiling counts as a disruption event even
// when it started on time.
const (
	WorkingRatioFloor = 0.80
	IdleRatioCeiling  = 0.25
)

// Sleep regulates bedtime. Bedtime variance tolerance is tight: an hour
// of stddev zeroes consistency.
var Sleep = Config{
	Name:                  "sleep",
	AlignmentCapMin:       120,
	ConsistencyCapMin:     60,
	EventThresholdMin:     45,
	WindowDays:            21,
	FollowDays:            4,
	MinConsistencySamples: 4,
}

// Cardio regulates the morning session start.
var Cardio = Config{
	Name:                  "cardio",
	AlignmentCapMin:       90,
	ConsistencyCapMin:     45,
	EventThresholdMin:     45,
	WindowDays:            14,
	FollowDays:            4,
	MinConsistencySamples: 4,
}

// Lift regulates the afternoon session. Its events are execution
// failures as much as timing drift, so the cap is looser.
var Lift = Config{
	Name:                  "lift",
	AlignmentCapMin:       120,
	ConsistencyCapMin:     60,
	EventThresholdMin:     45,
	WindowDays:            14,
	FollowDays:            4,
	MinConsistencySamples: 4,
}

// Outcome is adequacy/efficiency/continuity of an executed session. Each
// sub-score is nil when its required inputs were not logged: absent data
// must never silently read as success or failure.
type Outcome struct {
	Adequacy   *float64 `json:"adequacy"`
	Efficiency *float64 `json:"efficiency"`
	Continuity *float64 `json:"continuity"`
	Missing    []string `json:"missing,omitempty"`
}

func ratioScore(num, den float64) *float64 {
	if den <= 0 {
		return nil
	}
	s := window.Clamp(100*num/den, 0, 100)
	return &s
}

// SleepOutcome scores an executed sleep block.
// Adequacy: minutes asleep vs plan. Efficiency: asleep vs time in bed.
// Continuity: how little of the night was spent awake in bed.
func SleepOutcome(asleepMin, awakeInBedMin *int, plannedMin int) Outcome {
	var o Outcome
	if asleepMin == nil {
		o.Missing = append(o.Missing, "sleep_duration")
	} else {
		o.Adequacy = ratioScore(float64(*asleepMin), float64(plannedMin))
	}
	if asleepMin == nil || awakeInBedMin == nil {
		o.Missing = append(o.Missing, "awake_in_bed")
	} else {
		o.Efficiency = ratioScore(float64(*asleepMin), float64(*asleepMin+*awakeInBedMin))
		c := window.Clamp(100*(1-float64(*awakeInBedMin)/60), 0, 100)
		o.Continuity = &c
	}
	return o
}

// CardioOutcome scores an executed cardio session.
// Adequacy: session length vs plan. Efficiency: share of zone minutes in
// zone 2. Continuity: share of the session spent in any zone at all.
func CardioOutcome(startMin, endMin, z1, z2, z3 *int, plannedMin int) Outcome {
	var o Outcome
	var sessionMin *int
	if startMin != nil && endMin != nil {
		m := (*endMin - *startMin + window.MinutesPerDay) % window.MinutesPerDay
		sessionMin = &m
	}
	if sessionMin == nil {
		o.Missing = append(o.Missing, "session_timing")
	} else {
		o.Adequacy = ratioScore(float64(*sessionMin), float64(plannedMin))
	}
	if z1 == nil || z2 == nil || z3 == nil {
		o.Missing = append(o.Missing, "zone_minutes")
		return o
	}
	zoneTotal := *z1 + *z2 + *z3
	o.Efficiency = ratioScore(float64(*z2), float64(zoneTotal))
	if sessionMin != nil {
		o.Continuity = ratioScore(float64(zoneTotal), float64(*sessionMin))
	}
	return o
}

// LiftOutcome scores an executed lift session.
// Adequacy: session length vs plan. Efficiency: working minutes vs time
// in the gym. Continuity: complement of the idle ratio.
func LiftOutcome(startMin, endMin, workingMin, idleMin *int, plannedMin int) Outcome {
	var o Outcome
	var sessionMin *int
	if startMin != nil && endMin != nil {
		m := (*endMin - *startMin + window.MinutesPerDay) % window.MinutesPerDay
		sessionMin = &m
	}
	if sessionMin == nil {
		o.Missing = append(o.Missing, "session_timing")
	} else {
		o.Adequacy = ratioScore(float64(*sessionMin), float64(plannedMin))
	}
	if workingMin == nil || sessionMin == nil {
		o.Missing = append(o.Missing, "working_minutes")
	} else {
		o.Efficiency = ratioScore(float64(*workingMin), float64(*sessionMin))
	}
	if idleMin == nil || sessionMin == nil {
		o.Missing = append(o.Missing, "idle_minutes")
	} else if *sessionMin > 0 {
		c := window.Clamp(100*(1-float64(*idleMin)/float64(*sessionMin)), 0, 100)
		o.Continuity = &c
	}
	return o
}
