// ABOUTME: Daily report: weekly weight trend, calorie suggestion, fuel notes.
// ABOUTME: Calorie bands steer the trend into the lean-gain target range.
package engine

import (
	"github.com/conradlabs/coach/internal/regimen"
	"github.com/conradlabs/coach/internal/window"
)

// Calorie adjustment bands in kcal/day against the weekly trend, tuned
// to steer toward the 0.25-0.50 lb/week gain target.
const (
	trendStalled = 0.10
	trendSlow    = 0.25
	trendTarget  = 0.50
	trendFast    = 0.75

	cardioFuelThresholdMin = 45
)

// Report is the daily coaching summary.
type Report struct {
	Day               string       `json:"day"`
	WeeklyTrendLb     *float64     `json:"weeklyTrendLb,omitempty"`
	CalorieAdjustment *int         `json:"calorieAdjustment,omitempty"`
	Notes             []string     `json:"notes,omitempty"`
	Disturbance       *Disturbance `json:"disturbance"`
}

// Report assembles the daily summary for a day.
func (e *Engine) Report(userID, day string) (*Report, error) {
	if _, err := window.ParseDay(day); err != nil {
		return nil, err
	}

	d, err := e.Disturbance(userID, day)
	if err != nil {
		return nil, err
	}
	set, err := e.loadSeries(userID, window.AddDays(day, -13), day)
	if err != nil {
		return nil, err
	}

	r := &Report{Day: day, Disturbance: d}

	if trend := regimen.WeeklyTrend(set.weight, day); trend != nil {
		r.WeeklyTrendLb = trend
		adj := calorieAdjustment(*trend)
		r.CalorieAdjustment = &adj
	} else {
		r.Notes = append(r.Notes, "need 4 weight entries across 14 days for a trend")
	}

	if log := set.logs[day]; log != nil && log.CardioStartMin != nil && log.CardioEndMin != nil {
		session := (*log.CardioEndMin - *log.CardioStartMin + window.MinutesPerDay) % window.MinutesPerDay
		if session > cardioFuelThresholdMin {
			r.Notes = append(r.Notes, "cardio ran long: add ~25 g carbs around the session")
		}
	}
	return r, nil
}

func calorieAdjustment(trendLbWeek float64) int {
	switch {
	case trendLbWeek < trendStalled:
		return 100
	case trendLbWeek < trendSlow:
		return 75
	case trendLbWeek <= trendTarget:
		return 0
	case trendLbWeek <= trendFast:
		return -50
	default:
		return -100
	}
}
