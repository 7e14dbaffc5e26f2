// ABOUTME: Rolling short/long baseline resolver over daily metric series.
// ABOUTME: Baseline windows end the day before the reference day, never today.
package baseline

import (
	"github.com/conradlabs/coach/internal/window"
)

// Default window lengths. The short window is "current", the long window
// is the personal baseline it is compared against.
const (
	ShortWindowDays = 7
	LongWindowDays  = 28
	MedianDays      = 14
)

// Series is an ordered-by-date daily metric series with explicit gaps.
// Days not present in the map were simply not measured.
type Series struct {
	values map[string]float64
}

// NewSeries builds a series from day -> value observations.
func NewSeries(values map[string]float64) *Series {
	if values == nil {
		values = map[string]float64{}
	}
	return &Series{values: values}
}

// Value returns the observation for a day, if any.
func (s *Series) Value(day string) *float64 {
	if v, ok := s.values[day]; ok {
		return &v
	}
	return nil
}

// Set records an observation. Re-setting a day overwrites it, matching
// re-ingestion of that day's source row.
func (s *Series) Set(day string, v float64) {
	s.values[day] = v
}

// Len returns the number of observed days.
func (s *Series) Len() int { return len(s.values) }

// windowValues collects present observations for the n days ending at
// endDay inclusive, oldest first.
func (s *Series) windowValues(endDay string, n int) []float64 {
	vals := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		if v := s.Value(window.AddDays(endDay, -i)); v != nil {
			vals = append(vals, *v)
		}
	}
	return vals
}

// WindowCount returns how many observations exist in the n days ending
// at endDay inclusive.
func (s *Series) WindowCount(endDay string, n int) int {
	return len(s.windowValues(endDay, n))
}

// RollingMean averages the n days ending at endDay inclusive, requiring
// minSamples present observations. Too few samples degrade to nil.
func (s *Series) RollingMean(endDay string, n, minSamples int) *float64 {
	vals := s.windowValues(endDay, n)
	if len(vals) < minSamples {
		return nil
	}
	return window.Mean(vals)
}

// RollingMedian is RollingMean's robust sibling.
func (s *Series) RollingMedian(endDay string, n, minSamples int) *float64 {
	vals := s.windowValues(endDay, n)
	if len(vals) < minSamples {
		return nil
	}
	return window.Median(vals)
}

// Baseline is the derived (current, baseline) pair for one metric on one
// reference day.
type Baseline struct {
	Short *float64 // mean over ShortWindowDays ending at the reference day
	Long  *float64 // mean over LongWindowDays ending the day BEFORE
}

// Resolve computes the short/long pair for a reference day. The long
// window deliberately ends at refDay-1 so today's reading never leaks
// into its own comparison point.
func Resolve(s *Series, refDay string, minShort, minLong int) Baseline {
	return Baseline{
		Short: s.RollingMean(refDay, ShortWindowDays, minShort),
		Long:  s.RollingMean(window.AddDays(refDay, -1), LongWindowDays, minLong),
	}
}

// MedianBaseline returns the MedianDays-day median ending the day before
// refDay, requiring at least minSamples observations. Used by the
// regimen classifier's suppression check.
func MedianBaseline(s *Series, refDay string, minSamples int) *float64 {
	return s.RollingMedian(window.AddDays(refDay, -1), MedianDays, minSamples)
}

// PctDelta returns (current-base)/base*100, nil when either side is
// missing or the base is zero.
func (b Baseline) PctDelta() *float64 {
	if b.Short == nil || b.Long == nil || *b.Long == 0 {
		return nil
	}
	d := (*b.Short - *b.Long) / *b.Long * 100
	return &d
}

// UnitDelta returns current-base in the metric's own unit.
func (b Baseline) UnitDelta() *float64 {
	if b.Short == nil || b.Long == nil {
		return nil
	}
	d := *b.Short - *b.Long
	return &d
}
