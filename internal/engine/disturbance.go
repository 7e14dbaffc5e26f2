// ABOUTME: Delta assembly and disturbance scoring over stored series.
// ABOUTME: The 14-day slope is nil until a comparable past score exists.
package engine

import (
	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/disturb"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/window"
)

// slopeLookbackDays separates the two score snapshots the slope
// compares; the division by 2 converts the 14-day difference to
// points/week.
const slopeLookbackDays = 14

// Disturbance is the full per-day disturbance view.
type Disturbance struct {
	Day string `json:"day"`
	disturb.Result
	SlopePerWeek *float64 `json:"slopePerWeek,omitempty"`
	CortisolFlag bool     `json:"cortisolFlag"`
}

// Disturbance computes the fused score, slope, and cortisol flag for a
// day from the stored rows.
func (e *Engine) Disturbance(userID, day string) (*Disturbance, error) {
	if _, err := window.ParseDay(day); err != nil {
		return nil, err
	}

	key := cache.Key("disturbance", userID, day)
	if e.cache != nil {
		var cached Disturbance
		if found, err := e.cache.Get(key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	// The slope's past snapshot needs its own 28-day baseline, so the
	// load window reaches back past both.
	from := window.AddDays(day, -(slopeLookbackDays + baseline.LongWindowDays + baseline.ShortWindowDays))
	set, err := e.loadSeries(userID, from, day)
	if err != nil {
		return nil, err
	}
	plan, err := e.plan(userID)
	if err != nil {
		return nil, err
	}

	deltas, _ := e.deltasAt(set, plan, day)
	result := &Disturbance{
		Day:          day,
		Result:       disturb.Score(deltas),
		CortisolFlag: disturb.CortisolFlagAligned(deltas),
	}

	pastDeltas, pastComputable := e.deltasAt(set, plan, window.AddDays(day, -slopeLookbackDays))
	if pastComputable {
		past := disturb.Score(pastDeltas)
		slope := (result.Score - past.Score) / 2
		result.SlopePerWeek = &slope
	}

	if e.cache != nil {
		_ = e.cache.Set(key, result)
	}
	return result, nil
}

// deltasAt builds the normalized-delta inputs for one day. The second
// return reports whether any metric was measurable at all: a score over
// a fully empty window is a vacuous 50 and must not anchor a slope.
func (e *Engine) deltasAt(set *seriesSet, plan *models.PlanSettings, day string) (disturb.Deltas, bool) {
	var d disturb.Deltas

	d.HRVPct = baseline.Resolve(set.hrv, day, MinShortSamples, MinLongSamples).PctDelta()
	d.RHRBpm = baseline.Resolve(set.rhr, day, MinShortSamples, MinLongSamples).UnitDelta()
	d.SleepPct = baseline.Resolve(set.sleep, day, MinShortSamples, MinLongSamples).PctDelta()
	d.ProxyPct = baseline.Resolve(set.proxy, day, MinShortSamples, MinLongSamples).PctDelta()

	// A night counts as measured when its sleep start was logged; late
	// means past the planned bedtime by more than the tolerance on the
	// circular clock.
	for i := 0; i < 7; i++ {
		log := set.logs[window.AddDays(day, -i)]
		if log == nil || log.SleepStartMin == nil {
			continue
		}
		d.MeasuredNights7d++
		if window.CircularDelta(*log.SleepStartMin, plan.BedMin) > plan.BedtimeLateToleranceMin {
			d.LateNights7d++
		}
	}

	computable := d.HRVPct != nil || d.RHRBpm != nil || d.SleepPct != nil ||
		d.ProxyPct != nil || d.MeasuredNights7d > 0
	return d, computable
}
