// ABOUTME: Context phase assembly: tagged-day counts, adjustment recency,
// ABOUTME: cortisol flag rate over tagged days, fed into the decision tree.
package engine

import (
	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/disturb"
	"github.com/conradlabs/coach/internal/lens"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/window"
)

const (
	taggedWindowDays     = 21
	adjustmentWindowDays = 28
)

// ContextStatus is the full evaluated view of one tagged context.
type ContextStatus struct {
	Tag          string              `json:"tag"`
	Day          string              `json:"day"`
	Episode      *models.LensEpisode `json:"episode,omitempty"`
	TaggedDays21 int                 `json:"taggedDays21"`
	Phase        lens.PhaseResult    `json:"phase"`
	Disturbance  *Disturbance        `json:"disturbance"`
}

// ContextPhase classifies how a tagged context is affecting physiology
// as of a day.
func (e *Engine) ContextPhase(userID, tag, day string) (*ContextStatus, error) {
	if _, err := window.ParseDay(day); err != nil {
		return nil, err
	}

	d, err := e.Disturbance(userID, day)
	if err != nil {
		return nil, err
	}

	tagged, err := e.repo.ListContextEvents(userID, tag, window.AddDays(day, -(taggedWindowDays-1)), day)
	if err != nil {
		return nil, err
	}

	in := lens.PhaseInput{
		TaggedDays21: len(tagged),
		Score:        d.Score,
		Slope:        d.SlopePerWeek,
	}

	// Latest adjustment within the attempt window, if any.
	attempts, err := e.repo.ListContextEvents(userID, tag, window.AddDays(day, -(adjustmentWindowDays-1)), day)
	if err != nil {
		return nil, err
	}
	for _, ev := range attempts {
		if !ev.AdjustmentAttempted {
			continue
		}
		in.AdjustmentAttempted = true
		since := window.DaysBetween(ev.Day, day)
		if in.DaysSinceAdjustment == nil || since < *in.DaysSinceAdjustment {
			in.DaysSinceAdjustment = &since
		}
	}

	in.CortisolFlagRate = e.cortisolFlagRate(userID, tagged, day)

	status := &ContextStatus{
		Tag:          tag,
		Day:          day,
		TaggedDays21: in.TaggedDays21,
		Phase:        lens.Classify(in),
		Disturbance:  d,
	}
	if ep, err := e.repo.OpenEpisode(userID, tag); err == nil {
		status.Episode = ep
	}
	return status, nil
}

// cortisolFlagRate is the share of tagged days whose deltas fire the
// aligned cortisol flag. One series load covers every tagged day.
func (e *Engine) cortisolFlagRate(userID string, tagged []*models.ContextEvent, day string) float64 {
	if len(tagged) == 0 {
		return 0
	}
	from := window.AddDays(day, -(taggedWindowDays - 1 + baseline.LongWindowDays + 1))
	set, err := e.loadSeries(userID, from, day)
	if err != nil {
		return 0
	}
	plan, err := e.plan(userID)
	if err != nil {
		return 0
	}

	fired := 0
	for _, ev := range tagged {
		deltas, _ := e.deltasAt(set, plan, ev.Day)
		if disturb.CortisolFlagAligned(deltas) {
			fired++
		}
	}
	return float64(fired) / float64(len(tagged))
}
