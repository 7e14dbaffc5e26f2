// ABOUTME: Per-domain schedule stability assembly from stored rows.
// ABOUTME: Builds drift samples, applies recovery modifiers, scores outcomes.
package engine

import (
	"fmt"

	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/regulate"
	"github.com/conradlabs/coach/internal/window"
)

// consistencySessions bounds how many recent start times feed the
// variance score.
const consistencySessions = 7

// Stability computes the alignment/consistency/recovery/outcome block
// for one domain ("sleep", "cardio", "lift") on one day.
func (e *Engine) Stability(userID, domain, day string) (*regulate.Stability, error) {
	if _, err := window.ParseDay(day); err != nil {
		return nil, err
	}

	var cfg regulate.Config
	switch domain {
	case "sleep":
		cfg = regulate.Sleep
	case "cardio":
		cfg = regulate.Cardio
	case "lift":
		cfg = regulate.Lift
	default:
		return nil, fmt.Errorf("unknown stability domain %q", domain)
	}

	plan, err := e.plan(userID)
	if err != nil {
		return nil, err
	}
	from := window.AddDays(day, -(cfg.WindowDays - 1))
	set, err := e.loadSeries(userID, from, day)
	if err != nil {
		return nil, err
	}

	samples := make([]regulate.DaySample, 0, cfg.WindowDays)
	var starts []int
	for _, d := range window.RangeDays(from, day) {
		sample := domainSample(cfg, set.logs[d], plan, d)
		samples = append(samples, sample)
		if s := domainStart(domain, set.logs[d]); s != nil {
			starts = append(starts, *s)
		}
	}
	if len(starts) > consistencySessions {
		starts = starts[len(starts)-consistencySessions:]
	}

	st := &regulate.Stability{
		Domain:      cfg.Name,
		Day:         day,
		Alignment:   cfg.AlignmentScore(domainStart(domain, set.logs[day]), domainPlannedStart(domain, plan)),
		Consistency: cfg.ConsistencyScore(starts),
		Recovery:    cfg.Recovery(samples),
	}
	if st.Alignment == nil {
		st.Missing = append(st.Missing, "today_start_time")
	}
	if st.Consistency == nil {
		st.Missing = append(st.Missing, "insufficient_sessions")
	}

	if st.Recovery.Score != nil {
		adjusted := regulate.ApplyRecoveryModifiers(*st.Recovery.Score, recoveryModifiers(samples))
		st.Recovery.Score = &adjusted
	}

	st.Outcome = domainOutcome(domain, set.logs[day], plan)
	return st, nil
}

// recoveryModifiers derives the trust discounts from the sample window:
// the streak of trailing no-data days and the lingering mean deviation.
func recoveryModifiers(samples []regulate.DaySample) regulate.Modifiers {
	var m regulate.Modifiers
	for i := len(samples) - 1; i >= 0 && samples[i].Magnitude == nil; i-- {
		m.MissStreak++
	}
	sum, n := 0.0, 0
	for _, s := range samples {
		if s.Magnitude != nil {
			sum += *s.Magnitude
			n++
		}
	}
	if n > 0 {
		m.AvgDeviationMin = sum / float64(n)
	}
	return m
}

// domainSample builds one day of drift evidence. For sleep and cardio
// the magnitude is absolute circular drift from the planned start. Lift
// additionally treats execution failure as an event: a skipped planned
// session, a working ratio under the floor, or an idle ratio over the
// ceiling, each with a minutes-equivalent magnitude so recovery math
// compares like with like.
func domainSample(cfg regulate.Config, log *models.DailyLog, plan *models.PlanSettings, day string) regulate.DaySample {
	sample := regulate.DaySample{Day: day}
	if log == nil {
		return sample
	}

	switch cfg.Name {
	case "sleep":
		if log.SleepStartMin == nil {
			return sample
		}
		mag := absCircular(*log.SleepStartMin, plan.BedMin)
		sample.Magnitude = &mag
		sample.Event = mag >= cfg.EventThresholdMin

	case "cardio":
		if log.CardioStartMin == nil {
			return sample
		}
		mag := absCircular(*log.CardioStartMin, plan.CardioStartMin)
		sample.Magnitude = &mag
		sample.Event = mag >= cfg.EventThresholdMin

	case "lift":
		if log.LiftDone != nil && !*log.LiftDone {
			// Outright miss: the deficiency is the whole planned session.
			mag := float64(plan.PlannedLiftMin())
			sample.Magnitude = &mag
			sample.Event = true
			return sample
		}
		if log.LiftStartMin == nil {
			return sample
		}
		mag := absCircular(*log.LiftStartMin, plan.LiftStartMin)
		sample.Event = mag >= cfg.EventThresholdMin

		if log.LiftEndMin != nil {
			session := float64((*log.LiftEndMin - *log.LiftStartMin + window.MinutesPerDay) % window.MinutesPerDay)
			if session > 0 && log.LiftWorkingMin != nil {
				if ratio := float64(*log.LiftWorkingMin) / session; ratio < regulate.WorkingRatioFloor {
					sample.Event = true
					if deficit := regulate.WorkingRatioFloor*session - float64(*log.LiftWorkingMin); deficit > mag {
						mag = deficit
					}
				}
			}
			if session > 0 && log.LiftIdleMin != nil {
				if ratio := float64(*log.LiftIdleMin) / session; ratio > regulate.IdleRatioCeiling {
					sample.Event = true
					if excess := float64(*log.LiftIdleMin) - regulate.IdleRatioCeiling*session; excess > mag {
						mag = excess
					}
				}
			}
		}
		sample.Magnitude = &mag
	}
	return sample
}

func domainStart(domain string, log *models.DailyLog) *int {
	if log == nil {
		return nil
	}
	switch domain {
	case "sleep":
		return log.SleepStartMin
	case "cardio":
		return log.CardioStartMin
	case "lift":
		return log.LiftStartMin
	}
	return nil
}

func domainPlannedStart(domain string, plan *models.PlanSettings) int {
	switch domain {
	case "sleep":
		return plan.BedMin
	case "cardio":
		return plan.CardioStartMin
	default:
		return plan.LiftStartMin
	}
}

func domainOutcome(domain string, log *models.DailyLog, plan *models.PlanSettings) regulate.Outcome {
	empty := &models.DailyLog{}
	if log == nil {
		log = empty
	}
	switch domain {
	case "sleep":
		return regulate.SleepOutcome(log.SleepDurationMin(), log.AwakeInBedMin, plan.PlannedSleepMin())
	case "cardio":
		return regulate.CardioOutcome(log.CardioStartMin, log.CardioEndMin,
			log.CardioZone1Min, log.CardioZone2Min, log.CardioZone3Min, plan.PlannedCardioMin())
	default:
		return regulate.LiftOutcome(log.LiftStartMin, log.LiftEndMin,
			log.LiftWorkingMin, log.LiftIdleMin, plan.PlannedLiftMin())
	}
}

func absCircular(actual, planned int) float64 {
	d := window.CircularDelta(actual, planned)
	if d < 0 {
		d = -d
	}
	return float64(d)
}
