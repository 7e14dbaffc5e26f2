// ABOUTME: Primary driver assembly: builds the candidate disruptions
// ABOUTME: from today's row and baselines, then ranks them.
package engine

import (
	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/driver"
	"github.com/conradlabs/coach/internal/window"
)

// PrimaryDriver returns the single dominant disruption for a day, or
// nil when nothing cleared its firing threshold.
func (e *Engine) PrimaryDriver(userID, day string) (*driver.Candidate, error) {
	if _, err := window.ParseDay(day); err != nil {
		return nil, err
	}

	from := window.AddDays(day, -(baseline.LongWindowDays + baseline.ShortWindowDays))
	set, err := e.loadSeries(userID, from, day)
	if err != nil {
		return nil, err
	}
	plan, err := e.plan(userID)
	if err != nil {
		return nil, err
	}
	log := set.logs[day]

	var shortfall, wakeDrift, bedDrift, awake *float64
	if log != nil {
		if d := log.SleepDurationMin(); d != nil {
			s := float64(plan.PlannedSleepMin() - *d)
			shortfall = &s
		}
		if log.SleepEndMin != nil {
			d := float64(window.CircularDelta(*log.SleepEndMin, plan.WakeMin))
			wakeDrift = &d
		}
		if log.SleepStartMin != nil {
			d := float64(window.CircularDelta(*log.SleepStartMin, plan.BedMin))
			bedDrift = &d
		}
		if log.AwakeInBedMin != nil {
			a := float64(*log.AwakeInBedMin)
			awake = &a
		}
	}

	hrvPct := baseline.Resolve(set.hrv, day, MinShortSamples, MinLongSamples).PctDelta()
	rhrBpm := baseline.Resolve(set.rhr, day, MinShortSamples, MinLongSamples).UnitDelta()
	proxyPct := baseline.Resolve(set.proxy, day, MinShortSamples, MinLongSamples).PctDelta()

	candidates := driver.Collect(
		driver.SleepShortfallCandidate(shortfall),
		driver.WakeDriftCandidate(wakeDrift),
		driver.BedtimeDriftCandidate(bedDrift),
		driver.HRVDropCandidate(hrvPct),
		driver.RHRRiseCandidate(rhrBpm),
		driver.ProxyDropCandidate(proxyPct),
		driver.AwakeInBedCandidate(awake),
	)
	return driver.Rank(candidates), nil
}
