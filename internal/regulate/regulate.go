// ABOUTME: Generic schedule stability and recovery scorer.
// ABOUTME: One regulator parameterized per domain instead of three near-copies.
package regulate

import (
	"github.com/conradlabs/coach/internal/window"
)

// Config parameterizes the regulator for one regulated domain. Each
// domain supplies caps and thresholds; the scoring pattern is shared.
type Config struct {
	Name string

	// AlignmentCapMin is the deviation (minutes) at which today's
	// alignment score reaches 0.
	AlignmentCapMin float64

	// ConsistencyCapMin is the start-time stddev (minutes) at which the
	// consistency score reaches 0.
	ConsistencyCapMin float64

	// EventThresholdMin is the drift magnitude that counts as a schedule
	// disruption event.
	EventThresholdMin float64

	// WindowDays bounds how far back sessions are considered.
	WindowDays int

	// FollowDays is the bounded post-event follow window.
	FollowDays int

	// MinConsistencySamples is the minimum session count before variance
	// is scored at all.
	MinConsistencySamples int
}

// Recovery confidence levels and partial-window reasons. Callers must be
// able to tell "no event" from "event, unknown recovery" from "event,
// measured recovery".
const (
	ConfidenceFull = "full"
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"

	ReasonNoPostEventDays     = "insufficient_post_event_days"
	ReasonPartialFollowWindow = "partial_post_event_window"
)

// DaySample is one day of drift evidence for a domain, oldest-first in a
// trailing window. Magnitude is the day's badness in the domain's own
// units (deviation minutes, or a minutes-equivalent deficiency for lift);
// nil means no data that day. Event marks threshold-crossing days.
type DaySample struct {
	Day       string
	Magnitude *float64
	Event     bool
}

// RecoveryResult scores improvement after the most recent disruption
// event. When no event exists in the window there is nothing to recover
// from and the score is a perfect 100 with EventFound false.
type RecoveryResult struct {
	Score      *float64 `json:"score"`
	EventFound bool     `json:"eventFound"`
	EventDay   string   `json:"eventDay,omitempty"`
	Confidence string   `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Stability is the per-day computed block for one domain. Pure and
// recomputed per query; never authoritative stored state.
type Stability struct {
	Domain      string         `json:"domain"`
	Day         string         `json:"day"`
	Alignment   *float64       `json:"alignment"`
	Consistency *float64       `json:"consistency"`
	Recovery    RecoveryResult `json:"recovery"`
	Outcome     Outcome        `json:"outcome"`
	Missing     []string       `json:"missing,omitempty"`
}

// AlignmentScore maps today's absolute circular deviation from plan onto
// 0-100, hitting 0 at the domain cap. Nil when today's start is unlogged.
func (c Config) AlignmentScore(actualMin *int, plannedMin int) *float64 {
	if actualMin == nil {
		return nil
	}
	dev := float64(window.CircularDelta(*actualMin, plannedMin))
	if dev < 0 {
		dev = -dev
	}
	score := window.Clamp(100*(1-dev/c.AlignmentCapMin), 0, 100)
	return &score
}

// ConsistencyScore maps the population stddev of recent start times onto
// 0-100. Fewer than MinConsistencySamples sessions is unknown, not bad.
func (c Config) ConsistencyScore(startMins []int) *float64 {
	if len(startMins) < c.MinConsistencySamples {
		return nil
	}
	// Deviations are measured against the circular mean so sessions
	// straddling midnight do not explode the variance.
	mean := window.CircularMean(startMins)
	devs := make([]float64, len(startMins))
	for i, m := range startMins {
		devs[i] = float64(window.CircularDelta(m, *mean))
	}
	sd := window.PopStdDev(devs)
	if sd == nil {
		return nil
	}
	score := window.Clamp(100*(1-*sd/c.ConsistencyCapMin), 0, 100)
	return &score
}

// Recovery finds the most recent event in the sample window and scores
// the improvement over up to FollowDays available days after it. Missed
// days are skipped, not counted as zero improvement.
func (c Config) Recovery(samples []DaySample) RecoveryResult {
	eventIdx := -1
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Event {
			eventIdx = i
			break
		}
	}
	if eventIdx == -1 {
		score := 100.0
		return RecoveryResult{Score: &score, EventFound: false, Confidence: ConfidenceFull}
	}

	ev := samples[eventIdx]
	follow := make([]float64, 0, c.FollowDays)
	for i := eventIdx + 1; i < len(samples) && len(follow) < c.FollowDays; i++ {
		if samples[i].Magnitude != nil {
			follow = append(follow, *samples[i].Magnitude)
		}
	}

	res := RecoveryResult{EventFound: true, EventDay: ev.Day}
	if len(follow) == 0 {
		res.Confidence = ConfidenceLow
		res.Reasons = append(res.Reasons, ReasonNoPostEventDays)
		return res
	}

	eventMag := *ev.Magnitude
	avgFollow := *window.Mean(follow)
	improvement := (eventMag - avgFollow) / eventMag
	score := window.Clamp(improvement*100, 0, 100)
	res.Score = &score

	if len(follow) < c.FollowDays {
		res.Confidence = ConfidenceLow
		res.Reasons = append(res.Reasons, ReasonPartialFollowWindow)
	} else {
		res.Confidence = ConfidenceFull
	}
	return res
}

// Modifiers capture how trustworthy a recovery score is: a streak of
// days with no data at all, and the lingering average deviation.
type Modifiers struct {
	MissStreak      int
	AvgDeviationMin float64
}

// ApplyRecoveryModifiers discounts a recovery score that only looks good
// because there is no recent data to contradict it, and for residual
// drift that has not actually settled.
func ApplyRecoveryModifiers(raw float64, m Modifiers) float64 {
	suppressionFactor := 1.0 / float64(1+m.MissStreak)
	driftPenalty := window.Clamp(m.AvgDeviationMin/60, 0, 1)
	driftFactor := 1 - 0.5*driftPenalty
	return window.Clamp(raw*suppressionFactor*driftFactor, 0, 100)
}
